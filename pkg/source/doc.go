// Package source describes where page inputs come from and the Loader
// contract that reads them. Files are always available; fs.FS entries need a
// filesystem and URLs need HTTP to be enabled explicitly, keeping the default
// run offline.
package source
