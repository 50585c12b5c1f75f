// @title                       SIGCPEF Personnel API
// @version                     1.0
// @description                 Authentication, role-based access and personnel records for SIGCPEF.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"fmt"
	"os"

	"github.com/sigcpef/personnel-api/cmd/sigcpef/cli"
)

// Set via -ldflags at build time
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
