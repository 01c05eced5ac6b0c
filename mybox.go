// Command line client for NAVER MYBOX
package main

import (
	"github.com/myboxcli/mybox/cmd"
	_ "github.com/myboxcli/mybox/cmd/all" // import all commands
)

func main() {
	cmd.Main()
}
