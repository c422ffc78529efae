// Package cli implements the raytop command-line interface.
//
// The package is organized around Cobra commands. Each command resolves the
// config, layers its flags on top, and hands off to the nodes view-model and
// the monitor dashboard for the actual work.
//
// # Command Structure
//
// The root command is "raytop", which starts the dashboard itself:
//
//	raytop              - Live node list dashboard (same as raytop top)
//	raytop nodes        - Print one page of the node list, or --json
//	raytop init         - Create .raytop.yaml (or the global config)
//	raytop doctor       - Check the config, SSH tunnel host and dashboard
//	raytop version      - Print build information
//	raytop completion   - Generate shell completion scripts
//
// # Flag Handling
//
// Global flags (--config, --address, --ssh, --no-color) are persistent flags
// on the root command. The view flags (--mode, --page-size, --sort, --desc,
// --filter) are registered per command through AddViewFlags and only
// override the config when set.
//
// # Data Flow
//
// Both the dashboard and the nodes command build an api.Client (tunneled
// through SSH when configured) and a nodes.ViewModel over it. The dashboard
// mounts the view-model for the life of the program and forwards its
// notifications through monitor.Bridge. The nodes command mounts it for a
// single fetch via FetchSnapshot, so both print the same derived list.
package cli
