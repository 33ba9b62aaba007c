package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myConfig struct {
	Number int64          `json:"number"`
	Owner  coffer.Address `json:"owner"`
}

func (c *myConfig) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *myConfig) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *myConfig) Validate() error {
	if c.Number < 0 {
		return errors.Wrap(errors.ErrInput, "negative number")
	}
	return c.Owner.Validate()
}

func TestSaveLoad(t *testing.T) {
	owner := coffer.NewAddress([]byte("owner"))

	cases := map[string]struct {
		Conf        *myConfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &myConfig{Number: 42, Owner: owner},
		},
		"negative number cannot be saved": {
			Conf:        &myConfig{Number: -1, Owner: owner},
			WantSaveErr: errors.ErrInput,
		},
		"missing address cannot be saved": {
			Conf:        &myConfig{Number: 1},
			WantSaveErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "mypkg", tc.Conf)
			if tc.WantSaveErr != nil {
				assert.True(t, tc.WantSaveErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)

			var got myConfig
			require.NoError(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	var got myConfig
	err := Load(store.MemStore(), "nothing", &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInitConfig(t *testing.T) {
	owner := coffer.NewAddress([]byte("owner"))
	genesis := `{"conf": {"mypkg": {"number": 7, "owner": "` + owner.String() + `"}}}`

	var opts coffer.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, InitConfig(db, opts, "mypkg", &myConfig{}))

	var got myConfig
	require.NoError(t, Load(db, "mypkg", &got))
	assert.Equal(t, int64(7), got.Number)
	assert.Equal(t, owner, got.Owner)

	err := InitConfig(db, opts, "otherpkg", &myConfig{})
	assert.True(t, errors.ErrNotFound.Is(err))
}
