// Package script は生成AIが返した台本テキストを、固定4場面
// (Hook, Problem, Solution, CTA) の構造化データに分割します。
package script

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"ap-promo-web/internal/domain"
)

// 上流のテキストは「JSON配列」「見出し付き段落」「ただの文章」のどれで
// 返ってくるか分からないため、段階的なフォールバックで必ず4場面に落とします。
//   1. JSON配列として厳密にパース（コードフェンス許容）
//   2. 空行区切りの段落から先頭の役割トークンを剥がす
//   3. 非空行を均等な塊に分けて固定順で割り当てる
// 空入力でも4場面（全役割・空テキスト）を返します。

var (
	// jsonBlockRegex は ```json ... ``` のコードフェンスから中身を取り出します。
	jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

	// roleTokenRegex は段落先頭の役割トークン（Hook: など）を捕捉します。
	roleTokenRegex = regexp.MustCompile(`(?i)^[\s#*>]*(hook|problem|solution|cta)\b[\s.:：\-–)）]*`)

	// ordinalTokenRegex は「1.」「2)」のような序数トークンを捕捉します。
	ordinalTokenRegex = regexp.MustCompile(`^[\s#*>]*([1-4])[\s.:：\-–)）]+`)

	// paragraphSplitRegex は空行（空白のみの行を含む）で段落を区切ります。
	paragraphSplitRegex = regexp.MustCompile(`\r?\n\s*\r?\n`)
)

// Segmenter は台本テキストの分割を担当します。状態は持ちません。
type Segmenter struct{}

// NewSegmenter は新しい Segmenter を返します。
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment は生テキストをちょうど4場面に分割します。決して失敗しません。
func (s *Segmenter) Segment(raw string) []domain.Scene {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return emptyScenes()
	}

	// 1. JSON 配列としての厳密パース
	if scenes, ok := parseJSONScenes(trimmed); ok {
		return normalizeCount(scenes)
	}

	// 2. 見出し付き段落のパース
	if scenes, ok := parseHeadedParagraphs(trimmed); ok {
		return normalizeCount(scenes)
	}

	// 3. 均等分割フォールバック
	slog.Debug("台本が構造化されていないため、均等分割にフォールバックします")
	return chunkSplit(trimmed)
}

// parseJSONScenes は [{role, text}] 形式のJSON配列のパースを試みます。
// コードフェンスや前後の説明文に包まれていても、配列部分を取り出して解釈します。
func parseJSONScenes(raw string) ([]domain.Scene, bool) {
	candidate := raw
	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		candidate = matches[1]
	} else if first, last := strings.Index(raw, "["), strings.LastIndex(raw, "]"); first != -1 && last > first {
		candidate = raw[first : last+1]
	}

	var parsed []struct {
		Role string `json:"role"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil || len(parsed) == 0 {
		return nil, false
	}

	scenes := make([]domain.Scene, 0, len(parsed))
	for _, p := range parsed {
		scenes = append(scenes, domain.Scene{Role: canonicalRole(p.Role), Text: p.Text})
	}
	return scenes, true
}

// parseHeadedParagraphs は空行区切りの段落から役割トークンを剥がして場面を集めます。
// 認識できないトークンの段落も役割未定のまま収集します（後段で固定順の役割が
// 割り当てられます）。ただし、役割トークンが1つも見つからないテキストは
// 「見出し付き」とは見なさず、均等分割フォールバックに任せます。
func parseHeadedParagraphs(raw string) ([]domain.Scene, bool) {
	paragraphs := paragraphSplitRegex.Split(raw, -1)

	var scenes []domain.Scene
	tokenFound := false
	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		role, text := stripRoleToken(para)
		if role != "" {
			tokenFound = true
		}
		scenes = append(scenes, domain.Scene{Role: role, Text: text})
	}

	// 4場面に満たない場合は均等分割に任せます。
	if !tokenFound || len(scenes) < 4 {
		return nil, false
	}
	return scenes, true
}

// stripRoleToken は段落先頭の役割トークン・序数トークンを剥がします。
// 「1. Hook: 本文」のように序数と役割が連続するケースも両方剥がします。
func stripRoleToken(para string) (domain.SceneRole, string) {
	role := domain.SceneRole("")

	if m := ordinalTokenRegex.FindStringSubmatch(para); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			role = domain.SceneRoles()[n-1]
		}
		para = strings.TrimSpace(para[len(m[0]):])
	}

	if m := roleTokenRegex.FindStringSubmatch(para); m != nil {
		role = canonicalRole(m[1])
		para = strings.TrimSpace(para[len(m[0]):])
	}

	return role, para
}

// chunkSplit は非空行を ceil(N/4) 行ずつの連続した4つの塊に分け、
// 内容にかかわらず固定順で役割を割り当てます。
func chunkSplit(raw string) []domain.Scene {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	scenes := emptyScenes()
	if len(lines) == 0 {
		return scenes
	}

	chunkSize := (len(lines) + 3) / 4
	if chunkSize < 1 {
		chunkSize = 1
	}

	for i := range scenes {
		start := i * chunkSize
		if start >= len(lines) {
			break
		}
		end := start + chunkSize
		if end > len(lines) {
			end = len(lines)
		}
		scenes[i].Text = strings.Join(lines[start:end], "\n")
	}
	return scenes
}

// normalizeCount は場面数をちょうど4に揃えます。
// 5つ以上は順序を保ったまま先頭4つに切り詰め、4未満は空テキストで埋めます。
// 役割が未定の場面には、その位置に対応する固定順の役割を与えます。
func normalizeCount(scenes []domain.Scene) []domain.Scene {
	order := domain.SceneRoles()

	if len(scenes) > 4 {
		scenes = scenes[:4]
	}
	for len(scenes) < 4 {
		scenes = append(scenes, domain.Scene{Role: order[len(scenes)]})
	}

	for i := range scenes {
		if scenes[i].Role == "" {
			scenes[i].Role = order[i]
		}
	}
	return scenes
}

// canonicalRole は既知の役割名の表記ゆれを正規化します。未知の値はそのまま返します。
func canonicalRole(raw string) domain.SceneRole {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hook":
		return domain.RoleHook
	case "problem":
		return domain.RoleProblem
	case "solution":
		return domain.RoleSolution
	case "cta":
		return domain.RoleCTA
	}
	return domain.SceneRole(raw)
}

func emptyScenes() []domain.Scene {
	order := domain.SceneRoles()
	scenes := make([]domain.Scene, len(order))
	for i, role := range order {
		scenes[i] = domain.Scene{Role: role}
	}
	return scenes
}
