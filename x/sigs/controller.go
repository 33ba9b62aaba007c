package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/crypto"
	"github.com/iov-one/coffer/errors"
)

// SignCodeV1 prefixes the signed bytes and versions the layout.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of tx and advances the
// signer nonces. The signer conditions are returned in signature order.
func VerifyTxSignatures(db coffer.KVStore, tx SignedTx, chainID string) ([]coffer.Condition, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]coffer.Condition, len(sigs))
	for i, sig := range sigs {
		if signers[i], err = VerifySignature(db, sig, signBytes, chainID); err != nil {
			return nil, err
		}
	}
	return signers, nil
}

// VerifySignature checks a single signature over signBytes. The signature
// must use the current nonce of its key, which is then incremented.
func VerifySignature(db coffer.KVStore, sig *StdSignature, signBytes []byte, chainID string) (coffer.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest that is signed for a
// transaction:
//
//	SignCodeV1 | len(chainID) as uint8 | chainID | nonce as big endian int64 | signBytes
//
// The nonce and chain id bind the signature to one position on one chain.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !coffer.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	raw := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+len(signBytes))
	raw = append(raw, SignCodeV1...)
	raw = append(raw, byte(len(chainID)))
	raw = append(raw, chainID...)
	raw = binary.BigEndian.AppendUint64(raw, uint64(seq))
	raw = append(raw, signBytes...)

	digest := sha512.Sum512(raw)
	return digest[:], nil
}

// SignTx signs tx for the given chain with the nonce seq.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: seq}, nil
}
