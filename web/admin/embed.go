// Package admin содержит статические файлы админки.
package admin

import "embed"

// FS index.html и admin.js админки
//
//go:embed index.html admin.js
var FS embed.FS
