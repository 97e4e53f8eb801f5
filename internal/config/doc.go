// Package config provides configuration parsing for buoy hosts.
//
// The configuration is stored in buoy.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-app",
//	  "addr": ":7070",
//	  "basePath": "/",
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "buoy"
//	  },
//	  "trace": {
//	    "enabled": false,
//	    "serviceName": "buoy"
//	  },
//	  "session": {
//	    "maxSessions": 0,
//	    "readLimit": 1048576,
//	    "readTimeout": "60s",
//	    "pingInterval": "30s"
//	  },
//	  "playground": {
//	    "scenarios": "scenarios.yaml"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Addr)
package config
