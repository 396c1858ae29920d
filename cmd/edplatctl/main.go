// The edplatctl command provides a command-line interface for the
// educational platform video service
package main

import "github.com/khaledhosny129/Educational-platform/internal/edplatctl/cmd"

func main() {
	cmd.Execute()
}
