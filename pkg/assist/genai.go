package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"tableflip.dev/gracelog/pkg/scripture"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-flash-preview"

// generator is the slice of the genai client GenAI calls.
type generator interface {
	generate(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error)
}

type clientGenerator struct {
	client *genai.Client
}

func (c clientGenerator) generate(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenAI is a Gateway backed by the Gemini API.
type GenAI struct {
	model   string
	timeout time.Duration
	gen     generator
	log     *zap.Logger
}

// NewGenAI creates a Gemini client for apiKey. A zero timeout leaves the
// request bounded only by ctx.
func NewGenAI(ctx context.Context, apiKey, model string, timeout time.Duration, log *zap.Logger) (*GenAI, error) {
	if apiKey == "" {
		return nil, errors.New("assist: GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("assist: create client: %w", err)
	}
	return newGenAI(clientGenerator{client: client}, model, timeout, log), nil
}

func newGenAI(gen generator, model string, timeout time.Duration, log *zap.Logger) *GenAI {
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GenAI{model: model, timeout: timeout, gen: gen, log: log.Named("assist")}
}

func (g *GenAI) Assist(ctx context.Context, req Request) (*Response, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.gen.generate(ctx, g.model, Prompt(req), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction(req.Locale), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
	})
	if err != nil {
		g.log.Warn("generate failed", zap.String("model", g.model), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("assist: generate: %w", err)
	}
	g.log.Debug("generated", zap.String("model", g.model), zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(text)))

	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("assist: decode response: %w", err)
	}
	return &resp, nil
}

// Prompt is the user turn sent for req.
func Prompt(req Request) string {
	reflection := req.ReflectionText
	if reflection == "" {
		reflection = "No content yet"
	}
	return fmt.Sprintf("Scripture: %s %d. User's reflection: %s. Tags: %s.",
		req.Book, req.Chapter, reflection, strings.Join(req.Tags, ", "))
}

// SystemInstruction describes the essay the model writes, in locale l.
func SystemInstruction(l scripture.Locale) string {
	if l == scripture.English {
		return systemEnglish
	}
	return systemKorean
}

const systemKorean = `당신은 이재철 목사님의 신앙관을 가진 성경 묵상 도우미입니다.
하나님 앞에서(Coram Deo) 정직하게 자신을 마주하게 돕는 깊이 있는 통찰을 제공하세요.

[작성 규칙]
1. 전체 구조: 오직 3개의 문단으로만 구성하십시오.
   - 첫 번째 문단: 본문의 성경적/역사적 배경과 당시의 의미 해석.
   - 두 번째 문단: 그 말씀이 오늘날 우리 삶과 신앙에 주는 본질적 의미.
   - 세 번째 문단: 자신을 깊이 돌아보게 하는 성찰 질문 2개.
2. 형식: 문단과 문단 사이에는 반드시 빈 줄을 넣어 문단을 분리하십시오.
3. 소제목 금지: 어떠한 형태의 소제목이나 번호 매기기도 사용하지 마십시오.
4. 질문 처리: 마지막 문단의 두 질문은 각각 물음표(?)로 끝내고 한 줄에 하나씩 배치하십시오.
5. 분량 및 스타일: 공백 포함 400~600자 내외의 에세이 형식. 이모지나 느낌표는 사용하지 마십시오.
6. 결과물 배치: 'sharingSummary.summary' 필드에 위 규칙을 모두 준수한 텍스트를 담으십시오.`

const systemEnglish = `You are a biblical meditation assistant with a deep, humble, and intellectual perspective.
Help users face themselves honestly before God.

[Rules]
1. Structure: Exactly 3 paragraphs.
   - Para 1: Biblical/Historical context.
   - Para 2: Modern spiritual relevance.
   - Para 3: 2 Deep self-reflection questions.
2. Formatting: Separate paragraphs with a blank line. No headers or titles at all.
3. Questions: Each question must end with a (?) and be placed on its own line.
4. Length: Dense content (400-600 characters). No emojis.
5. Placement: Put the full natural essay in the 'sharingSummary.summary' field.`

var stringList = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"observations": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Internal analysis paragraphs."},
		"applications": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Application paragraphs."},
		"prayers":      stringList,
		"sharingSummary": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary":     {Type: genai.TypeString, Description: "The complete natural essay (3-paragraph structure) following the instructions strictly."},
				"questions":   stringList,
				"prayerPoint": {Type: genai.TypeString},
			},
			Required: []string{"summary", "questions", "prayerPoint"},
		},
	},
	Required: []string{"observations", "applications", "prayers", "sharingSummary"},
}
