package main

import "github.com/imjustablacknerd/docusaurus/cmd"

func main() {
	cmd.Execute()
}
