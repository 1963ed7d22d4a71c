// Command cc11lex is the standalone pp-token lexer binary.
package main

import "github.com/oscarcs/cc11/cmd"

func main() {
	cmd.Execute()
}
