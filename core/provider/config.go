package provider

// Config holds the API-Sports connection settings. The key is read
// from configuration or the environment and sent as a request header,
// never as a query parameter.
type Config struct {
	BaseURL        string `mapstructure:"base_url" default:"https://v3.football.api-sports.io"`
	Key            string `mapstructure:"key" default:""`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"15"`
	MaxRetries     int    `mapstructure:"max_retries" default:"3"`
}
