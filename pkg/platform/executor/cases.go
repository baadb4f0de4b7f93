package executor

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/gatewaylab/conform/pkg/models"
)

// Case payloads are provider-agnostic: the orchestrator substitutes the
// target provider's canonical model before execution. The "model" values
// below are placeholders that never reach the wire.

func chatCompletionsCases() map[string]any {
	return map[string]any{
		"simple-chat": map[string]any{
			"model": "placeholder",
			"messages": []any{
				map[string]any{"role": "user", "content": "In one sentence, what is a snapshot test?"},
			},
			"temperature": 0,
		},
		"multi-turn": map[string]any{
			"model": "placeholder",
			"messages": []any{
				map[string]any{"role": "user", "content": "Pick a color and remember it."},
				map[string]any{"role": "assistant", "content": "I pick blue."},
				map[string]any{"role": "user", "content": "Which color did you pick?"},
			},
			"temperature": 0,
		},
		"tool-call": map[string]any{
			"model": "placeholder",
			"messages": []any{
				map[string]any{"role": "user", "content": "What is the weather in Paris?"},
			},
			"tools": []any{
				map[string]any{
					"type": "function",
					"function": map[string]any{
						"name":        "get_weather",
						"description": "Get the current weather for a city",
						"parameters": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"city": map[string]any{"type": "string"},
							},
							"required": []any{"city"},
						},
					},
				},
			},
			"tool_choice": "auto",
		},
		"system-prompt": map[string]any{
			"model": "placeholder",
			"messages": []any{
				map[string]any{"role": "system", "content": "You answer with exactly one word."},
				map[string]any{"role": "user", "content": "What planet do we live on?"},
			},
			"temperature": 0,
		},
		"json-mode": map[string]any{
			"model": "placeholder",
			"messages": []any{
				map[string]any{"role": "user", "content": "Return a JSON object with a single key `ok` set to true."},
			},
			"response_format": map[string]any{"type": "json_object"},
		},
	}
}

func chatCompletionsExpectations() map[string]*models.Expectation {
	exists := true
	return map[string]*models.Expectation{
		"unrecognized-argument": {
			Status: 400,
			Fields: []models.FieldAssertion{
				{Path: "error.message", Contains: "Unrecognized request argument"},
				{Path: "error.type", Exists: &exists},
			},
		},
	}
}

// unrecognized-argument needs a payload even though it has no snapshot.
func chatCompletionsExpectationCases() map[string]any {
	return map[string]any{
		"unrecognized-argument": map[string]any{
			"model": "placeholder",
			"messages": []any{
				map[string]any{"role": "user", "content": "hi"},
			},
			"reasoning_effort_ratio": 0.7,
		},
	}
}

var chatCompletionsIgnored = []string{
	"id",
	"created",
	"system_fingerprint",
	"service_tier",
	"usage.prompt_tokens",
	"usage.completion_tokens",
	"usage.total_tokens",
	"usage.prompt_tokens_details.*",
	"usage.completion_tokens_details.*",
	"choices.*.message.annotations.length",
}

func responsesCases() map[string]any {
	return map[string]any{
		"simple-chat": map[string]any{
			"model": "placeholder",
			"input": []any{
				map[string]any{"role": "user", "content": "In one sentence, what is a snapshot test?"},
			},
			"temperature": 0,
		},
		"multi-turn": map[string]any{
			"model": "placeholder",
			"input": []any{
				map[string]any{"role": "user", "content": "Pick a color and remember it."},
				map[string]any{"role": "assistant", "content": "I pick blue."},
				map[string]any{"role": "user", "content": "Which color did you pick?"},
			},
			"temperature": 0,
		},
		"tool-call": map[string]any{
			"model": "placeholder",
			"input": []any{
				map[string]any{"role": "user", "content": "What is the weather in Paris?"},
			},
			"tools": []any{
				map[string]any{
					"type":        "function",
					"name":        "get_weather",
					"description": "Get the current weather for a city",
					"parameters": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"city": map[string]any{"type": "string"},
						},
						"required": []any{"city"},
					},
				},
			},
		},
	}
}

var responsesIgnored = []string{
	"id",
	"created_at",
	"output.*.id",
	"usage.input_tokens",
	"usage.output_tokens",
	"usage.total_tokens",
	"usage.input_tokens_details.*",
	"usage.output_tokens_details.*",
}

func anthropicCases() map[string]any {
	return map[string]any{
		"simple-chat": map[string]any{
			"model":      "placeholder",
			"max_tokens": 1024,
			"messages": []any{
				map[string]any{"role": "user", "content": "In one sentence, what is a snapshot test?"},
			},
			"temperature": 0,
		},
		"multi-turn": map[string]any{
			"model":      "placeholder",
			"max_tokens": 1024,
			"messages": []any{
				map[string]any{"role": "user", "content": "Pick a color and remember it."},
				map[string]any{"role": "assistant", "content": "I pick blue."},
				map[string]any{"role": "user", "content": "Which color did you pick?"},
			},
			"temperature": 0,
		},
		"tool-call": map[string]any{
			"model":      "placeholder",
			"max_tokens": 1024,
			"messages": []any{
				map[string]any{"role": "user", "content": "What is the weather in Paris?"},
			},
			"tools": []any{
				map[string]any{
					"name":        "get_weather",
					"description": "Get the current weather for a city",
					"input_schema": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"city": map[string]any{"type": "string"},
						},
						"required": []any{"city"},
					},
				},
			},
		},
	}
}

var anthropicIgnored = []string{
	"id",
	"usage.input_tokens",
	"usage.output_tokens",
	"usage.cache_creation_input_tokens",
	"usage.cache_read_input_tokens",
}

func NewChatCompletions(logger *zap.Logger, client *http.Client) *HTTPExecutor {
	cases := chatCompletionsCases()
	for name, payload := range chatCompletionsExpectationCases() {
		cases[name] = payload
	}
	return &HTTPExecutor{
		logger:       logger,
		client:       client,
		format:       models.FormatChatCompletions,
		endpoint:     "/v1/chat/completions",
		setAuth:      bearerAuth,
		cases:        cases,
		expectations: chatCompletionsExpectations(),
		ignored:      chatCompletionsIgnored,
	}
}

func NewResponses(logger *zap.Logger, client *http.Client) *HTTPExecutor {
	return &HTTPExecutor{
		logger:       logger,
		client:       client,
		format:       models.FormatResponses,
		endpoint:     "/v1/responses",
		setAuth:      bearerAuth,
		cases:        responsesCases(),
		expectations: map[string]*models.Expectation{},
		ignored:      responsesIgnored,
	}
}

func NewAnthropic(logger *zap.Logger, client *http.Client) *HTTPExecutor {
	return &HTTPExecutor{
		logger:       logger,
		client:       client,
		format:       models.FormatAnthropic,
		endpoint:     "/v1/messages",
		setAuth:      anthropicAuth,
		cases:        anthropicCases(),
		expectations: map[string]*models.Expectation{},
		ignored:      anthropicIgnored,
	}
}
