package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name       string
		activeUser string
		offline    bool
		want       string
	}{
		{"idle host is online", "", false, StatusOnline},
		{"whitespace user is online", "   ", false, StatusOnline},
		{"active user means in use", "m.mueller", false, StatusInUse},
		{"offline wins over idle", "", true, StatusOffline},
		{"offline wins over active user", "m.mueller", true, StatusOffline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.activeUser, tc.offline))
		})
	}
}
