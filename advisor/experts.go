package advisor

import (
	"github.com/etnz/goalfolio"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model of every expert unless configured.
const DefaultModel = "gemini-2.5-flash"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user is here to understand their investments and how far they are from their goals.
			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			Check the portfolio first whenever the user mentions one of their investments.
			Answer in markdown.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader creates an expert grounded on Google Search for market news.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of the financial products and institutions,
		and of the latest news about funds, companies and cryptocurrencies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in trading, you can search and find about anything related to
			financial institutions, companies, markets and funds. You leverage Google Search to
			ground your assertions.
			You can get the latest news too, and you know how to relate them to the user's request.
			You never give personalized investment advice, you explain and inform.
			`),
		},
	}
}

// NewPlanner creates the expert that reads the user's holdings and goals.
func NewPlanner(model string, records Records, src goalfolio.PriceSource) *Expert {
	lib := Tools(records, src)
	return &Expert{
		Name: "Planner",
		Description: `This is the Planner. They know the user's investments and savings goals.
		They can value the portfolio at market prices and measure the progress of each goal.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are a financial planner in charge of the user's investments and goals.
			You know how to use the Tools to extract relevant information about the portfolio and the goals.
			You are part of a team of experts, they might ask you questions about the user's portfolio,
			pardon their approximate language and figure out what they meant.

			Use the available tools to get information about:
			  - investments, their value and profit or loss
			  - goals, their progress and the monthly investment needed
			`),
		},
		Library: NewLibrary(lib),
	}
}
