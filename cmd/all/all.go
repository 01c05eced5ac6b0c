// Package all imports all the commands
package all

import (
	// Active commands
	_ "github.com/myboxcli/mybox/cmd"
	_ "github.com/myboxcli/mybox/cmd/about"
	_ "github.com/myboxcli/mybox/cmd/delete"
	_ "github.com/myboxcli/mybox/cmd/download"
	_ "github.com/myboxcli/mybox/cmd/link"
	_ "github.com/myboxcli/mybox/cmd/login"
	_ "github.com/myboxcli/mybox/cmd/ls"
	_ "github.com/myboxcli/mybox/cmd/mkdir"
	_ "github.com/myboxcli/mybox/cmd/move"
	_ "github.com/myboxcli/mybox/cmd/obscure"
	_ "github.com/myboxcli/mybox/cmd/recent"
	_ "github.com/myboxcli/mybox/cmd/search"
	_ "github.com/myboxcli/mybox/cmd/star"
	_ "github.com/myboxcli/mybox/cmd/trash"
	_ "github.com/myboxcli/mybox/cmd/upload"
	_ "github.com/myboxcli/mybox/cmd/version"
)
