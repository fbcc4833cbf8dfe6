package constants

import "time"

var CacheTTL = struct {
	SharedLayout time.Duration
	ImageLookup  time.Duration
}{
	SharedLayout: 10 * time.Minute, // 10분 - 공유 링크 레이아웃
	ImageLookup:  24 * time.Hour,   // 1일 - Unsplash 검색 결과
}

var CacheKeys = struct {
	AllowancePrefix string
	SharePrefix     string
	ImagePrefix     string
}{
	AllowancePrefix: "astroweb:credits:",
	SharePrefix:     "astroweb:share:",
	ImagePrefix:     "astroweb:image:",
}

var AllowanceConfig = struct {
	StartingCredits int64
	MaxTopUp        int64
}{
	StartingCredits: 5,
	MaxTopUp:        100,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var AIInputLimits = struct {
	MaxPromptLength int
	MaxBrandLength  int
}{
	MaxPromptLength: 2000,
	MaxBrandLength:  80,
}

var GenerationConfig = struct {
	Timeout         time.Duration
	LogoTimeout     time.Duration
	ImageTimeout    time.Duration
	MaxOutputTokens int32
	SnippetLength   int
}{
	Timeout:         90 * time.Second,
	LogoTimeout:     30 * time.Second,
	ImageTimeout:    8 * time.Second,
	MaxOutputTokens: 8192,
	SnippetLength:   200,
}

var LogoConfig = struct {
	Size    int
	ViewBox string
}{
	Size:    48,
	ViewBox: "0 0 48 48",
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,                // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:        30 * time.Second, // 기본 재시도 대기 시간
	RateLimitTimeout:    10 * time.Minute, // 429 Rate Limit 전용 타임아웃
	HealthCheckInterval: 5 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var HTTPConfig = struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxBodyBytes      int64
	IdentityHeader    string
	ReadyCheckTimeout time.Duration
}{
	ReadHeaderTimeout: 10 * time.Second,
	WriteTimeout:      120 * time.Second,
	IdleTimeout:       60 * time.Second,
	ShutdownTimeout:   10 * time.Second,
	MaxBodyBytes:      1 << 20,
	IdentityHeader:    "X-User-ID",
	ReadyCheckTimeout: 3 * time.Second,
}

var WebSocketConfig = struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	SendBufferSize int
}{
	WriteWait:      10 * time.Second,
	PongWait:       60 * time.Second,
	PingPeriod:     54 * time.Second,
	SendBufferSize: 16,
}

var DatabaseConfig = struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
	ListLimit       int
	ListConcurrency int
}{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
	PingTimeout:     5 * time.Second,
	ListLimit:       100,
	ListConcurrency: 8,
}

var APIConfig = struct {
	UnsplashBaseURL string
	UnsplashTimeout time.Duration
	OpenRouterURL   string
}{
	UnsplashBaseURL: "https://api.unsplash.com",
	UnsplashTimeout: 8 * time.Second,
	OpenRouterURL:   "https://openrouter.ai/api/v1",
}

var SessionConfig = struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}{
	IdleTimeout:   2 * time.Hour,    // 2시간 미사용 세션 정리
	SweepInterval: 10 * time.Minute,
}
