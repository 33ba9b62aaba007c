package errors

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		// wantLog is a prefix, debug logs end with a stack trace.
		wantLog string
	}{
		"no error": {
			wantCode: SuccessABCICode,
		},
		"typed nil": {
			err:      (*Error)(nil),
			wantCode: SuccessABCICode,
		},
		"root error": {
			err:      ErrUnauthorized,
			wantCode: 2,
			wantLog:  "unauthorized",
		},
		"wrapped twice": {
			err:      Wrap(Wrap(ErrEmpty, "owners"), "vault"),
			wantCode: 11,
			wantLog:  "vault: owners: value is empty",
		},
		"wrapped twice in debug mode": {
			err:      Wrap(Wrap(ErrEmpty, "owners"), "vault"),
			debug:    true,
			wantCode: 11,
			wantLog:  "vault: owners: value is empty",
		},
		"unregistered error is redacted": {
			err:      Wrap(io.ErrUnexpectedEOF, "read block"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"unregistered error in debug mode": {
			err:      Wrap(io.ErrUnexpectedEOF, "read block"),
			debug:    true,
			wantCode: internalABCICode,
			wantLog:  "read block: unexpected EOF",
		},
		"own code implementation": {
			err:      livenessErr{},
			wantCode: 404,
			wantLog:  "too early",
		},
		"field error keeps the code": {
			err:      Field("Threshold", ErrInput, "above owner count"),
			wantCode: 8,
			wantLog:  `field "Threshold": above owner count: invalid input`,
		},
		"first coded error of a multi error": {
			err:      Append(io.EOF, ErrDuplicate, ErrInput),
			wantCode: 6,
			wantLog:  "3 errors occurred",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, code)
			if tc.wantLog == "" {
				assert.Empty(t, log)
				return
			}
			assert.True(t, strings.HasPrefix(log, tc.wantLog), "got log %q", log)
		})
	}
}

type livenessErr struct{}

func (livenessErr) ABCICode() uint32 { return 404 }
func (livenessErr) Error() string    { return "too early" }
