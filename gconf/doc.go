/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each package stores a single configuration object under the "_c:<package>"
key. A configuration is validated before it is written. Use InitConfig or
ReadConfig to load a configuration from the genesis file, where all
configurations are kept under the "gconf" key:

	{
		"gconf": {
			"wallet": {"approvers": [...], "quorum": 2}
		}
	}
*/
package gconf
