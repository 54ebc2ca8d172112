package config

import (
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default params
var defaults = `
channel:
  capacity: 1024
  sock_path: /tmp/mtmatrix/thread_info.sock

compute:
  cell_msg_len: 32
  bin: computeunit

stats:
  enabled: true
`

type Config struct {
	Channel struct {
		// Capacity of the telemetry channel slot, in bytes.
		CAPACITY int `yaml:"capacity"`
		// Well-known unix socket path of the telemetry endpoint.
		SOCK_PATH string `yaml:"sock_path"`
	} `yaml:"channel"`
	Compute struct {
		// Fixed size of one cell message on the result pipe.
		CELL_MSG_LEN int `yaml:"cell_msg_len"`
		// Name of the compute unit binary, resolved next to the driver.
		BIN string `yaml:"bin"`
	} `yaml:"compute"`
	Stats struct {
		// Log a per-run telemetry summary.
		ENABLED bool `yaml:"enabled"`
	} `yaml:"stats"`
}

var Conf *Config

func init() {
	if p := os.Getenv("MTMCONFIG"); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			log.Fatalf("Read config %v err %v\n", p, err)
		}
		Conf = ReadConfig(string(b))
	} else {
		Conf = ReadConfig(defaults)
	}
}

func ReadConfig(params string) *Config {
	config := &Config{}
	d := yaml.NewDecoder(strings.NewReader(params))
	if err := d.Decode(&config); err != nil {
		log.Fatalf("Yaml decode %v err %v\n", params, err)
	}
	return config
}
