package main

import (
	"testing"

	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContractAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected types.ContractAddress
		wantErr  bool
	}{
		{"display format", "<2059,0>", types.ContractAddress{Index: 2059}, false},
		{"bare", "7,1", types.ContractAddress{Index: 7, Subindex: 1}, false},
		{"missing subindex", "7", types.ContractAddress{}, true},
		{"not a number", "<a,b>", types.ContractAddress{}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseContractAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
