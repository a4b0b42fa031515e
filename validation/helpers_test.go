package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func replaceField(t *testing.T, field, raw string) []byte {
	t.Helper()
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(validBody), &doc))
	doc[field] = json.RawMessage(raw)
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return out
}
