package tempus

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

func TestTokenizeFormat(t *testing.T) {
	datadriven.RunTest(t, "testdata/tokenize", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "test":
			tokens, err := tokenizeFormat(d.Input)
			require.NoError(t, err)

			ret := []string{}
			for _, token := range tokens {
				ret = append(
					ret,
					fmt.Sprintf("type: %s, val: %s, idx: %d", token.tokenType, token.val, token.idx),
				)
			}
			return strings.Join(ret, "\n")
		default:
			t.Fatalf("command unknown: %s", d.Cmd)
		}
		return ""
	})
}

func TestTokenizeFormatError(t *testing.T) {
	for _, tc := range []struct {
		s   string
		err error
	}{
		{"%Y-%", NewParseError(3, "expected directive after %")},
		{"%Y %q", NewParseError(3, "unknown directive: %q")},
		{"%%%", NewParseError(2, "expected directive after %")},
	} {
		t.Run(tc.s, func(t *testing.T) {
			_, err := tokenizeFormat(tc.s)
			require.Error(t, err)
			require.Equal(t, tc.err, err)
		})
	}
}
