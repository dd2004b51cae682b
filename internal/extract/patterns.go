package extract

import "regexp"

// Process-wide rule tables. Listings mix Japanese, Korean and English, so
// every keyword set carries the spellings actually seen on Amazon JP eSIM
// pages. Compiled once, never mutated.
var (
	whitespacePattern = regexp.MustCompile(`\s+`)

	jpyPricePattern = regexp.MustCompile(`(?:￥|¥|JPY\s?)([0-9][0-9,]*)`)
	amountPattern   = regexp.MustCompile(`[0-9][0-9,]+`)

	dataAmountPattern = regexp.MustCompile(`(?i)(?:(\d+)\s?GB|無制限|使い放題|unlimited)`)
	gbNumberPattern   = regexp.MustCompile(`(?i)(\d+)\s?gb`)
	gbSignalPattern   = regexp.MustCompile(`(?i)\d+\s*GB`)

	dayCountPattern   = regexp.MustCompile(`(\d{1,3})\s?(?:日間|日)`)
	labeledDayPattern = regexp.MustCompile(`(\d{1,4})\s?(?:日間|日)`)
	koreanDayPattern  = regexp.MustCompile(`(\d{1,4})\s*일`)

	validityLabelPattern = regexp.MustCompile(`(?i)(?:有効期限|利用期間|validity)\s*[:：]?\s*([^\n\r。]+)`)
	dataExhaustPattern   = regexp.MustCompile(`(?i)(GB\s?使い切り|GB\s?소진\s?시까지|until\s+data\s+is\s+used)`)
	labeledExhaustPattern = regexp.MustCompile(`(?i)(GB\s?使い切り|until\s+data\s+is\s+used)`)

	ktWordPattern = regexp.MustCompile(`\bkt\b`)
)

var (
	usageKeywords      = []string{"利用期間", "使用期間", "travel days", "days plan", "days"}
	activationKeywords = []string{"有効期限", "受信後", "購入日", "以内", "activate", "有効化"}
	noiseKeywords      = []string{"サポート", "お問い合わせ", "営業", "365日多言語", "24時間サポート"}

	localNetworkKeywords   = []string{"現地回線", "現地通信", "ローカル回線", "local"}
	roamingNetworkKeywords = []string{"ローミング", "国際ローミング", "roaming"}

	lguKeywords = []string{"lg u+", "lgu+", "uplus", "lgu"}
)
