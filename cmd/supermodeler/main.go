// Supermodeler inspects YAML model and mapping declarations.
//
// Usage:
//
//	# Report problems in a declaration file
//	supermodeler check models.yaml
//
//	# Treat warnings as errors and print JSON for CI
//	supermodeler check models.yaml --strict --format json
//
//	# Compile the declarations and print every model and mapping pipeline
//	supermodeler explain models.yaml
package main

func main() {
	Execute()
}
