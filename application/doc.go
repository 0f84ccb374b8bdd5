/*
Package application is a library for building registry client
executables on top of the protocol packages.

Config

This module implements the configuration abstraction shared by
executables: a CommonConfig carrying the config file path, its encoding
and the logger settings, loaded and saved through a ConfigLoader.
Currently only TOML is supported.

Encoding

This module decodes the registry's HTTP responses into
protocol.Response values.

Logger

This module implements a generic logging system that can be used by any
executable.
*/
package application
