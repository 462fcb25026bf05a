package cfg

import "time"

type Cfg struct {
	// Content and output
	ContentDir string
	OutputDir  string
	StaticDir  string
	SiteConfig string
	DBPath     string

	// Preview server
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Hosted CMS
	CMSURL     string
	CMSBucket  string
	CMSReadKey string

	// Background work
	CacheTTL        int
	RefreshInterval int
	WorkerCount     int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string

	// Positional arguments
	Command    string
	Collection string
}

func (c *Cfg) CacheTTLDuration() time.Duration {
	if c.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CacheTTL) * time.Second
}

func (c *Cfg) RefreshIntervalDuration() time.Duration {
	if c.RefreshInterval <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.RefreshInterval) * time.Second
}
