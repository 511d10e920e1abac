// Package file provides file-based implementations of configuration ports.
//
// Adapters:
//   - ConfigStore: TOML configuration at <data dir>/config.toml
//   - PromptStore: user-editable prompt files under <data dir>/prompts
package file
