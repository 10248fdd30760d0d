package domain

const CategoryNotAvailable = "N/A"

// NotificationRequest は Slack 等の通知コンポーネントで共有されるデータ構造です。
// 生成されたプロモ素材のメタデータを通知先に伝えるために使用します。
type NotificationRequest struct {
	// SourceURL は、プロモの元になった商品ページのURLです。
	SourceURL string `json:"source_url"`

	// TargetTitle は、抽出された商品タイトル（取れなければ説明文の冒頭）です。
	TargetTitle string `json:"target_title"`

	// ImageKind は、画像ペイロードの解決結果です。(例: "inline", "reference", "absent")
	ImageKind string `json:"image_kind"`
}
