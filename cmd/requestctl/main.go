// cmd/requestctl/main.go
package main

func main() {
	Execute()
}
