package conf

type Bootstrap struct {
	Server   *Server
	Detector *Detector
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Detector struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Search struct {
	Provider string  `json:"provider"`
	Exa      *Exa    `json:"exa"`
	Tavily   *Tavily `json:"tavily"`
}

type Exa struct {
	ApiKey string `json:"api_key"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
