package config

type Config struct {
	Journal  JournalConf  `json:"journal"`
	LLM      LlmConf      `json:"llm"`
	Telegram TelegramConf `json:"telegram"`
}

type JournalConf struct {
	SeedDemoData bool   `json:"seed_demo_data"` // 首次启动时写入演示交易数据
	DigestCron   string `json:"digest_cron"`    // 每日摘要的cron表达式，默认 "0 8 * * *"
}

type LlmConf struct {
	BaseURL  string `json:"base_url"`  // LLM API基础URL
	APIKey   string `json:"api_key"`   // LLM API密钥
	Model    string `json:"model"`     // 模型名称
	ProxyURL string `json:"proxy_url"` // 代理地址，例如: http://127.0.0.1:7890
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}
