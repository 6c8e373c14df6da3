// File: lixenwraith/paramtree/cmd/paramtree/main.go
package main

func main() {
	execute()
}
