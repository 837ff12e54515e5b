// SPDX-License-Identifier: MIT

package content

import "embed"

// embedded carries the built-in content records. A content directory on
// disk overrides individual files, never the whole set.
//
//go:embed data/*.json
var embedded embed.FS
