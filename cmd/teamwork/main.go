// Command teamwork runs declarative agent workflows from the command line.
//
//	teamwork run --config workflow.yaml
//	teamwork validate --config workflow.yaml
//
// Every flag can also be set through a TEAMWORK_ prefixed environment
// variable, e.g. TEAMWORK_REDIS_ADDR=localhost:6379.
package main

func main() {
	Execute()
}
