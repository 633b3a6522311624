// Package site describes a landing page as a manifest of sections.
//
// Each section names a {{placeholder}} template and binds its placeholders
// to content paths. Scalar bindings fill single values; list bindings render
// every record of a content list through a pongo2 partial, optionally
// filtered by a CEL predicate, and concatenate the fragments:
//
//	sections:
//	  - name: hero
//	    template: sections/hero.html
//	    fields:
//	      hero_title: hero.title
//	  - name: intro
//	    template: sections/intro.html
//	    lists:
//	      intro_philosophy_items:
//	        path: intro.blocks
//	        where: item.group == "philosophy"
//	        partial: philosophy_block
//
// The package embeds a default manifest, theme and partials for the bundled
// page; callers can swap any of the three.
package site
