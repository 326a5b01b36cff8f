// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the encoding pipeline that turns loaded
// architectures into programs and dependency graphs, decoupled from any
// specific entrypoint like a CLI.
package app
