// SPDX-License-Identifier: MIT

// Package config provides configuration management for the rrishmusic daemon.
//
// Configuration is resolved with precedence ENV > YAML file > defaults and
// validated before use. A ConfigHolder supports atomic hot reloads from
// file changes (fsnotify) or SIGHUP.
package config
