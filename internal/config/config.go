package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
	// Product names the supported product in prompts, context blocks and
	// acknowledgments.
	Product string `mapstructure:"product"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RedisConfig holds redis connection settings. Leave Addr empty to run
// without ticket persistence.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// OpenAIConfig holds settings for the chat/embedding API. BaseURL allows
// pointing at any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// SearchConfig controls the keyword search over the article snapshot.
type SearchConfig struct {
	SnapshotPath string `mapstructure:"snapshot_path"`
	// ContextArticles is how many articles feed the solution context.
	ContextArticles int `mapstructure:"context_articles"`
	// FetchFresh refetches selected articles from the live site when
	// building context.
	FetchFresh bool `mapstructure:"fetch_fresh"`
	// ReloadInterval is how often the snapshot file is checked for
	// changes, e.g. "1m".
	ReloadInterval string `mapstructure:"reload_interval"`
}

// ZendeskConfig controls the help-center scraper and fresh fetches.
type ZendeskConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	UserAgent    string `mapstructure:"user_agent"`
	Timeout      string `mapstructure:"timeout"`
	RequestDelay string `mapstructure:"request_delay"`
	OutputDir    string `mapstructure:"output_dir"`
	// IgnoreRobots skips the robots.txt check before fetching.
	IgnoreRobots bool `mapstructure:"ignore_robots"`
	// RefreshInterval re-fetches the stalest articles periodically;
	// empty or "0" disables the refresher.
	RefreshInterval string `mapstructure:"refresh_interval"`
	RefreshBatch    int    `mapstructure:"refresh_batch"`
}

// CloudflareConfig enables the Browser Rendering fallback for pages the
// plain HTTP fetcher cannot extract.
type CloudflareConfig struct {
	AccountID string `mapstructure:"account_id"`
	APIToken  string `mapstructure:"api_token"`
}

// VectorConfig holds the pgvector document store settings. Leave DSN empty
// to run without semantic search.
type VectorConfig struct {
	DSN        string `mapstructure:"dsn"`
	Dimensions int    `mapstructure:"dimensions"`
	// TopK is how many documents a semantic lookup returns.
	TopK int `mapstructure:"top_k"`
}

// IngestConfig controls document ingestion into the vector store.
type IngestConfig struct {
	DataDir      string `mapstructure:"data_dir"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap"`
}

// KafkaConfig holds the ticket event stream settings. Leave Brokers empty
// to run without events.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// TriageConfig points at an optional severity/redirect policy overlay.
type TriageConfig struct {
	PolicyPath string `mapstructure:"policy_path"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Search     SearchConfig     `mapstructure:"search"`
	Zendesk    ZendeskConfig    `mapstructure:"zendesk"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	Vector     VectorConfig     `mapstructure:"vector"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Triage     TriageConfig     `mapstructure:"triage"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.Product == "" {
		c.App.Product = "DVSum"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "llama-3.3-70b-versatile"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.Search.SnapshotPath == "" {
		c.Search.SnapshotPath = "./data/zendesk_articles.json"
	}
	if c.Search.ContextArticles == 0 {
		c.Search.ContextArticles = 3
	}
	if c.Search.ReloadInterval == "" {
		c.Search.ReloadInterval = "1m"
	}
	if c.Zendesk.BaseURL == "" {
		c.Zendesk.BaseURL = "https://dvsum.zendesk.com/hc/en-us"
	}
	if c.Zendesk.UserAgent == "" {
		c.Zendesk.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.Zendesk.Timeout == "" {
		c.Zendesk.Timeout = "10s"
	}
	if c.Zendesk.RequestDelay == "" {
		c.Zendesk.RequestDelay = "1500ms"
	}
	if c.Zendesk.OutputDir == "" {
		c.Zendesk.OutputDir = "./data"
	}
	if c.Zendesk.RefreshBatch == 0 {
		c.Zendesk.RefreshBatch = 5
	}
	if c.Vector.Dimensions == 0 {
		c.Vector.Dimensions = 1536
	}
	if c.Vector.TopK == 0 {
		c.Vector.TopK = 3
	}
	if c.Ingest.DataDir == "" {
		c.Ingest.DataDir = "./data"
	}
	if c.Ingest.ChunkSize == 0 {
		c.Ingest.ChunkSize = 1000
	}
	if c.Ingest.ChunkOverlap == 0 {
		c.Ingest.ChunkOverlap = 200
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "support.ticket.triaged"
	}
}
