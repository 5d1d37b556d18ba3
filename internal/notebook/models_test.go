package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbhive/nbhive/internal/identity"
)

func TestGroomTitle(t *testing.T) {
	assert.Equal(t, "My Analysis", GroomTitle("  My   Analysis "))
	assert.Equal(t, "", GroomTitle("   "))
	assert.Equal(t, "plain", GroomTitle("plain"))
}

func TestValidate(t *testing.T) {
	nb := &Notebook{
		UUID:  "9f0c61f3-7e8f-4e37-9cb4-6a5ef3c9b021",
		Title: "Valid",
		Owner: identity.OwnUser(&identity.User{Name: "alice"}),
	}
	require.Nil(t, nb.Validate())

	bad := &Notebook{UUID: "not-a-uuid"}
	err := bad.Validate()
	require.NotNil(t, err)
	assert.Equal(t, "invalid parameters", err.Message)
	assert.NotEmpty(t, err.Causes)
	// missing title, bad uuid, and missing owner all reported
	assert.Contains(t, err.Error(), "owner: required")
}
