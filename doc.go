// File: lixenwraith/paramtree/doc.go

// Package paramtree provides a typed, hierarchical parameter tree for
// command-line programs. A tree is declared once with a Builder, bound to
// POSIX-style command-line options, filled from configuration files and
// environment variables, and then read by dotted path.
//
// Features:
//   - Typed leaves over integers, floats, booleans, characters, strings and
//     file paths, as scalars or homogeneous sequences
//   - Nested sections and append-only lists of structures
//   - Dotted and indexed paths ("servers.#0.host")
//   - Per-entry aspects: description, required, is-set, shortcut
//   - Command-line binding through spf13/pflag with derived long names
//   - TOML, YAML, JSON and HCL files, environment variables
//   - Required-value validation and a usage table
//
// Quick Start:
//
//	b := paramtree.NewBuilder().
//	    DeclareLeaf("level", "verbosity level", paramtree.Default(3), paramtree.Shortcut('l')).
//	    DeclareLeaf("distance", "distance to travel", paramtree.Empty[float64](), paramtree.Required()).
//	    BeginSection("server", "listener settings").
//	    DeclareLeaf("port", "TCP port", paramtree.Default[uint16](8080)).
//	    EndSection("server")
//
//	tree, _, err := paramtree.Quick(b, "MYAPP_", "config.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	port, _ := paramtree.ValueAt[uint16](tree, "server.port")
//
// Default Precedence (highest to lowest):
//  1. Command-line arguments (--server-port=9090)
//  2. Environment variables (MYAPP_SERVER_PORT=9090)
//  3. Configuration file (config.toml)
//  4. Declared defaults
//
// Concurrency:
// A tree is built and filled from a single goroutine. Concurrent readers are
// safe once no writer is active.
package paramtree
