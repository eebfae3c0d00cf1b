package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name        string
		street      string
		city        string
		county      string
		state       string
		zip         string
		wantErr     bool
		errContains string
	}{
		{name: "full address", street: "1200 County Rd 7", city: "Hays", state: "ks", zip: "67601"},
		{name: "rural parcel by county", county: "Ellis", state: "KS"},
		{name: "zip plus four", city: "Hays", state: "KS", zip: "67601-1234"},
		{name: "bad state", city: "Hays", state: "Kansas", wantErr: true, errContains: "two-letter"},
		{name: "bad zip", city: "Hays", state: "KS", zip: "6760", wantErr: true, errContains: "zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.street, tt.city, tt.county, tt.state, tt.zip)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, len(addr.State))
		})
	}
}

func TestAddress_String(t *testing.T) {
	addr, err := NewAddress("1200 County Rd 7", "Hays", "", "KS", "67601")
	require.NoError(t, err)
	assert.Equal(t, "1200 County Rd 7, Hays, KS 67601", addr.String())

	rural, err := NewAddress("", "", "Ellis", "KS", "")
	require.NoError(t, err)
	assert.Equal(t, "Ellis County, KS", rural.String())

	assert.Equal(t, "", Address{}.String())
}

func TestAddress_ScanValue(t *testing.T) {
	addr, err := NewAddress("", "Hays", "", "KS", "67601")
	require.NoError(t, err)

	v, err := addr.Value()
	require.NoError(t, err)

	var scanned Address
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, addr, scanned)

	empty, err := Address{}.Value()
	require.NoError(t, err)
	assert.Nil(t, empty)
}
