// Package config loads vpatch.json.
//
// # Configuration File Structure
//
//	{
//	  "properties": {
//	    "attributesKey": "attributes",
//	    "styleKey": "style"
//	  },
//	  "log": {"level": "debug"},
//	  "metrics": {"enabled": true, "namespace": "vpatch"},
//	  "tracing": {"tracerName": "vpatch"},
//	  "inspect": {"addr": "localhost:7070", "interval": "1s"},
//	  "snapshots": {
//	    "driver": "disk",
//	    "dir": ".vpatch/frames"
//	  }
//	}
//
// Missing fields take the defaults from New.
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tr, err := tree.Mount(doc, root, tree.WithPolicy(cfg.Policy()))
package config
