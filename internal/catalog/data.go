package catalog

var categories = []Category{
	{
		Key:         "ai",
		Title:       "AI & Artificial Intelligence Company Logos",
		Description: "Logos from top AI companies including OpenAI, Anthropic, Midjourney, and more.",
		Entries: []Entry{
			{"OpenAI", "openai.com"},
			{"Anthropic", "anthropic.com"},
			{"Google DeepMind", "deepmind.google"},
			{"Midjourney", "midjourney.com"},
			{"Hugging Face", "huggingface.co"},
			{"Mistral AI", "mistral.ai"},
			{"Perplexity", "perplexity.ai"},
			{"Stability AI", "stability.ai"},
			{"Cohere", "cohere.com"},
			{"Runway", "runwayml.com"},
			{"Nvidia", "nvidia.com"},
			{"Scale AI", "scale.com"},
			{"Character.AI", "character.ai"},
			{"ElevenLabs", "elevenlabs.io"},
		},
	},
	{
		Key:         "saas",
		Title:       "SaaS Company Logos",
		Description: "Logos from leading SaaS companies including Salesforce, HubSpot, Slack, Zoom, and more.",
		Entries: []Entry{
			{"Salesforce", "salesforce.com"},
			{"HubSpot", "hubspot.com"},
			{"Slack", "slack.com"},
			{"Zoom", "zoom.us"},
			{"Notion", "notion.so"},
			{"Atlassian", "atlassian.com"},
			{"Asana", "asana.com"},
			{"Dropbox", "dropbox.com"},
			{"Figma", "figma.com"},
			{"Canva", "canva.com"},
			{"Airtable", "airtable.com"},
			{"Zendesk", "zendesk.com"},
			{"Monday.com", "monday.com"},
			{"Intercom", "intercom.com"},
		},
	},
	{
		Key:         "fintech",
		Title:       "Fintech & Financial Technology Logos",
		Description: "Logos from top fintech companies including Stripe, PayPal, Square, Coinbase, and more.",
		Entries: []Entry{
			{"Stripe", "stripe.com"},
			{"PayPal", "paypal.com"},
			{"Square", "squareup.com"},
			{"Revolut", "revolut.com"},
			{"Wise", "wise.com"},
			{"Klarna", "klarna.com"},
			{"Plaid", "plaid.com"},
			{"Robinhood", "robinhood.com"},
			{"Chime", "chime.com"},
			{"Adyen", "adyen.com"},
			{"Brex", "brex.com"},
			{"Affirm", "affirm.com"},
			{"N26", "n26.com"},
		},
	},
	{
		Key:         "social",
		Title:       "Social Media & Network Logos",
		Description: "Logos from popular social media platforms including Facebook, Instagram, TikTok, X, LinkedIn, and more.",
		Entries: []Entry{
			{"Facebook", "facebook.com"},
			{"Instagram", "instagram.com"},
			{"TikTok", "tiktok.com"},
			{"X", "x.com"},
			{"LinkedIn", "linkedin.com"},
			{"YouTube", "youtube.com"},
			{"Snapchat", "snapchat.com"},
			{"Pinterest", "pinterest.com"},
			{"Reddit", "reddit.com"},
			{"Discord", "discord.com"},
			{"Telegram", "telegram.org"},
			{"WhatsApp", "whatsapp.com"},
			{"Twitch", "twitch.tv"},
			{"Threads", "threads.net"},
		},
	},
	{
		Key:         "crypto",
		Title:       "Crypto & Blockchain Company Logos",
		Description: "Logos from top crypto and blockchain companies including Bitcoin, Ethereum, Binance, Coinbase, and more.",
		Entries: []Entry{
			{"Bitcoin", "bitcoin.org"},
			{"Ethereum", "ethereum.org"},
			{"Binance", "binance.com"},
			{"Coinbase", "coinbase.com"},
			{"Kraken", "kraken.com"},
			{"Solana", "solana.com"},
			{"Ripple", "ripple.com"},
			{"Chainlink", "chain.link"},
			{"Polygon", "polygon.technology"},
			{"Uniswap", "uniswap.org"},
			{"MetaMask", "metamask.io"},
			{"Ledger", "ledger.com"},
		},
	},
	{
		Key:         "shop",
		Title:       "E-Commerce & Retail Brand Logos",
		Description: "Logos from top e-commerce and retail brands including Amazon, Nike, Shopify, Target, and more.",
		Entries: []Entry{
			{"Amazon", "amazon.com"},
			{"Nike", "nike.com"},
			{"Shopify", "shopify.com"},
			{"Target", "target.com"},
			{"Walmart", "walmart.com"},
			{"eBay", "ebay.com"},
			{"Etsy", "etsy.com"},
			{"IKEA", "ikea.com"},
			{"Zara", "zara.com"},
			{"Adidas", "adidas.com"},
			{"Best Buy", "bestbuy.com"},
			{"AliExpress", "aliexpress.com"},
			{"Costco", "costco.com"},
			{"Sephora", "sephora.com"},
		},
	},
}

var topCompanies = []Entry{
	{"Apple", "apple.com"},
	{"Microsoft", "microsoft.com"},
	{"Google", "google.com"},
	{"Amazon", "amazon.com"},
	{"Meta", "meta.com"},
	{"Nvidia", "nvidia.com"},
	{"Tesla", "tesla.com"},
	{"Netflix", "netflix.com"},
	{"OpenAI", "openai.com"},
	{"Stripe", "stripe.com"},
	{"Spotify", "spotify.com"},
	{"Adobe", "adobe.com"},
	{"Salesforce", "salesforce.com"},
	{"Oracle", "oracle.com"},
	{"IBM", "ibm.com"},
	{"Intel", "intel.com"},
	{"Samsung", "samsung.com"},
	{"Sony", "sony.com"},
	{"Uber", "uber.com"},
	{"Airbnb", "airbnb.com"},
	{"PayPal", "paypal.com"},
	{"Visa", "visa.com"},
	{"Mastercard", "mastercard.com"},
	{"Coca-Cola", "coca-cola.com"},
	{"Nike", "nike.com"},
	{"Disney", "disney.com"},
	{"GitHub", "github.com"},
	{"Slack", "slack.com"},
	{"Zoom", "zoom.us"},
	{"Shopify", "shopify.com"},
	{"LinkedIn", "linkedin.com"},
	{"YouTube", "youtube.com"},
	{"Instagram", "instagram.com"},
	{"TikTok", "tiktok.com"},
	{"Discord", "discord.com"},
	{"Reddit", "reddit.com"},
	{"Dropbox", "dropbox.com"},
	{"Figma", "figma.com"},
	{"Notion", "notion.so"},
	{"Anthropic", "anthropic.com"},
}
