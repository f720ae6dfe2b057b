package advisor

import (
	"encoding/json"
	"fmt"
)

// Advisory chat types. Each one selects a different system prompt and is
// gated to a different audience.
const (
	TypeTrending = "trending"
	TypeHealth   = "health"
	TypeFarmer   = "farmer"
	TypeAdmin    = "admin"
)

const trendingPrompt = `You are a vegetable trends AI assistant for GrowShare platform.
You analyze vegetable ordering patterns and provide insights about:
- Which vegetables are most popular
- Trending vegetables based on recent orders
- Seasonal recommendations
- Demand patterns

Current database context: %s

Be concise, helpful, and focus on vegetable trends. Use emojis occasionally for friendliness.`

const healthPrompt = `You are a health and nutrition AI advisor for GrowShare platform.
You help users understand:
- Health benefits of different vegetables
- Which vegetables are good for specific health conditions (diabetes, blood pressure, digestion, etc.)
- Nutritional information
- Personalized vegetable recommendations

Available vegetables on platform: %s

Be caring, informative, and provide evidence-based advice. Always recommend consulting a doctor for medical advice.`

const farmerPrompt = `You are a farming assistant AI for GrowShare platform.
You help farmers by:
- Showing trending vegetables users want
- Suggesting which vegetables to grow based on demand
- Providing platform usage tips
- Answering farming-related questions

Current trends data: %s

Be practical, helpful, and farmer-friendly. Focus on actionable insights.`

const adminPrompt = `You are an admin analytics AI for GrowShare platform.
You provide insights about:
- Overall platform trends
- User and farmer activity overview
- Vegetable demand across the platform
- Business insights

Platform data: %s

Be professional, data-driven, and provide actionable insights.`

const defaultPrompt = "You are a helpful AI assistant for GrowShare, a platform connecting users with farmers."

// systemPrompt renders the prompt for a chat type, folding the platform
// context in as JSON.
func systemPrompt(chatType string, context map[string]any) string {
	ctxJSON, err := json.Marshal(context)
	if err != nil || context == nil {
		ctxJSON = []byte("{}")
	}

	switch chatType {
	case TypeTrending:
		return fmt.Sprintf(trendingPrompt, ctxJSON)
	case TypeHealth:
		vegJSON := []byte("[]")
		if v, ok := context["vegetables"]; ok {
			if b, err := json.Marshal(v); err == nil {
				vegJSON = b
			}
		}
		return fmt.Sprintf(healthPrompt, vegJSON)
	case TypeFarmer:
		return fmt.Sprintf(farmerPrompt, ctxJSON)
	case TypeAdmin:
		return fmt.Sprintf(adminPrompt, ctxJSON)
	default:
		return defaultPrompt
	}
}
