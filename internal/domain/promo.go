package domain

// ProductRequest は、プロモ生成エンドポイントへの入力を表します。
// URL と Desc の少なくとも一方が必須です（バリデーションはパイプライン側で行います）。
type ProductRequest struct {
	// URL は商品ページのURLです。メタデータ抽出の入力になります。
	URL string `json:"url"`
	// Desc は商品の説明文です。URLが無い場合はこれがプロンプトの主材料になります。
	Desc string `json:"desc"`
	// StyleHint は画像生成の画風指定です。未指定の場合は設定のデフォルト値を使います。
	StyleHint string `json:"style"`
}

// PageMetadata は商品ページから抽出したメタデータを保持します。
// 抽出はベストエフォートであり、取れなかったフィールドは空文字列のままです。
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// OGImage は og:image メタタグのURLです。空文字列は「存在しない」を意味します。
	OGImage string `json:"og_image"`
}

// ImageKind は画像ペイロードの表現形式を示すタグです。
type ImageKind string

const (
	// ImageKindInline は base64 エンコードされた画像データそのものです。
	ImageKindInline ImageKind = "inline"
	// ImageKindReference は外部にホストされた画像へのURL参照です。
	ImageKindReference ImageKind = "reference"
	// ImageKindAbsent は利用可能な画像が無いことを示します。
	ImageKindAbsent ImageKind = "absent"
)

// ImagePayload は画像アーティファクトのタグ付きバリアントです。
// Data と URL は排他であり、Kind に対応する側だけが設定されます。
type ImagePayload struct {
	Kind ImageKind `json:"kind"`
	// Data は Kind が inline のときのみ設定される base64 文字列です。
	Data string `json:"data,omitempty"`
	// URL は Kind が reference のときのみ設定されます。
	URL string `json:"url,omitempty"`
}

// AbsentImage は「画像なし」を表すペイロードを返します。
func AbsentImage() ImagePayload {
	return ImagePayload{Kind: ImageKindAbsent}
}

// InlineImage は base64 データを抱えたペイロードを返します。
func InlineImage(data string) ImagePayload {
	return ImagePayload{Kind: ImageKindInline, Data: data}
}

// ReferenceImage はURL参照のペイロードを返します。
func ReferenceImage(url string) ImagePayload {
	return ImagePayload{Kind: ImageKindReference, URL: url}
}

// SceneRole は台本を構成する固定の4役割です。
type SceneRole string

const (
	RoleHook     SceneRole = "Hook"
	RoleProblem  SceneRole = "Problem"
	RoleSolution SceneRole = "Solution"
	RoleCTA      SceneRole = "CTA"
)

// SceneRoles は出力順序どおりの役割リストを返します。
// 台本は常にこの順・この数で組み立てられます。
func SceneRoles() [4]SceneRole {
	return [4]SceneRole{RoleHook, RoleProblem, RoleSolution, RoleCTA}
}

// Scene は台本のうちの1場面です。
type Scene struct {
	Role SceneRole `json:"role"`
	Text string    `json:"text"`
}

// GenerationResult は1リクエスト分のパイプライン実行結果です。
// 組み立て後に変更されることはありません。
type GenerationResult struct {
	Metadata PageMetadata `json:"metadata"`
	Image    ImagePayload `json:"image"`
	// Scenes は常に長さ4です（Hook, Problem, Solution, CTA の順）。
	Scenes []Scene `json:"scenes"`
	// RawScript はゲートウェイが返した台本テキストの原文です。
	// 分割のフォールバックが働いた場合の透明性のために保持します。
	RawScript string `json:"raw_script"`
}
