// Package config loads pagegen settings from PAGEGEN_* environment variables.
//
// Every option has a default so a bare invocation renders the templates in
// src/ with config/content.json into index.html. PAGEGEN_EMBEDDED_THEME
// switches to the bundled theme. CLI flags override the values loaded here.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg)
package config
