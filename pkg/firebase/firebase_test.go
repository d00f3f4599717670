package firebase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitFirebaseRequiresCredentials(t *testing.T) {
	_, err := InitFirebase(context.Background(), "", "")
	assert.Error(t, err)

	missing := filepath.Join(t.TempDir(), "firebase_credentials.json")
	_, err = InitFirebase(context.Background(), missing, "")
	assert.ErrorContains(t, err, "not found")
}
