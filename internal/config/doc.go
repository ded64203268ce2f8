// Package config provides configuration for the head tooling.
//
// The configuration is stored in vango-head.json and may be overridden by
// VANGO_HEAD_* environment variables.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": "localhost:3000",
//	    "liveURL": "/_head/ws"
//	  },
//	  "log": {
//	    "level": "info"
//	  },
//	  "render": {
//	    "pretty": true,
//	    "defaultMeta": true,
//	    "lang": "en"
//	  },
//	  "snapshot": {
//	    "dir": "dist/head",
//	    "s3": {
//	      "bucket": "my-site",
//	      "prefix": "head/",
//	      "region": "eu-west-1"
//	    }
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Resolve("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Server.Addr)
package config
