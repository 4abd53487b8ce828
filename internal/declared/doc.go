// Package declared loads the set of browser extensions a user wants
// installed.
//
// The declarations file maps extension ids to a display name, an opaque
// version and a source URL:
//
//	{
//	    "extensions": {
//	        "ext1": {"name": "Example", "version": "2.0", "url": "https://..."}
//	    }
//	}
//
// JSON (with comments and trailing commas), YAML and TOML files are
// accepted, chosen by file extension. Every document is validated against
// an embedded JSON schema before use. JSON files can also be edited in
// place with Init, Add and Remove, which preserve existing formatting.
package declared
