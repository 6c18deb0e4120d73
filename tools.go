//go:build tools
// +build tools

package tempus

import (
	_ "golang.org/x/tools/cmd/stringer"
)
