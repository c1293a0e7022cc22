package weave_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	cond := weave.NewCondition("escrow", "seq", []byte("deposit"))
	addr := cond.Address()
	b32, err := addr.Bech32("esc")
	require.NoError(t, err)
	// changing the last character breaks the checksum
	last := "q"
	if b32[len(b32)-1] == 'q' {
		last = "p"
	}
	badChecksum := b32[:len(b32)-1] + last

	cases := map[string]struct {
		input   string
		want    weave.Address
		wantErr *errors.Error
	}{
		"hex without prefix":    {input: fmt.Sprintf("%x", []byte(addr)), want: addr},
		"upper case hex":        {input: addr.String(), want: addr},
		"hex with prefix":       {input: fmt.Sprintf("hex:%x", []byte(addr)), want: addr},
		"condition":             {input: "cond:escrow/seq/6465706f736974", want: addr},
		"bech32":                {input: "bech32:" + b32, want: addr},
		"empty":                 {input: "", want: nil},
		"empty with prefix":     {input: "hex:", want: nil},
		"short hex":             {input: "0102", wantErr: errors.ErrInput},
		"not hex":               {input: "xyz", wantErr: errors.ErrInput},
		"condition of 2 parts":  {input: "cond:escrow/6465706f736974", wantErr: errors.ErrInput},
		"condition data no hex": {input: "cond:escrow/seq/zz", wantErr: errors.ErrInput},
		"bad bech32 checksum":   {input: "bech32:" + badChecksum, wantErr: errors.ErrInput},
		"unknown format":        {input: "base64:AAAA", wantErr: errors.ErrType},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := weave.ParseAddress(tc.input)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := weave.NewAddress([]byte("maker"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(raw))

	var got weave.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, addr.Equals(got))

	err = json.Unmarshal([]byte(`"0102"`), &got)
	assert.True(t, errors.ErrInput.Is(err))
	err = json.Unmarshal([]byte(`17`), &got)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestAddressBasics(t *testing.T) {
	addr := weave.NewAddress([]byte("buyer"))
	assert.Len(t, addr, weave.AddressLength)
	assert.Nil(t, weave.NewAddress(nil))
	assert.Equal(t, "(nil)", weave.Address(nil).String())

	clone := addr.Clone()
	clone[0]++
	assert.False(t, addr.Equals(clone))
	assert.Nil(t, weave.Address(nil).Clone())
}
