package kanban

import _ "embed"

// Version is the release version, with a trailing newline.
//
//go:embed VERSION
var Version string
