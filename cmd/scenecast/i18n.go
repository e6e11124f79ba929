// Package main provides localization for the scenecast CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Compose scene scripts into short vertical videos": "シーンスクリプトから縦型ショート動画を作成",
		"scenecast turns a YAML scene script into a portrait video. Each scene is painted and held on screen while the capture pipeline samples and encodes it.": "scenecastはYAMLのシーンスクリプトを縦型動画に変換します。各シーンを画面に描画して保持し、その間にキャプチャパイプラインがサンプリングとエンコードを行います。",

		// Subcommands
		"Compose a scene script into a video":            "シーンスクリプトから動画を作成",
		"Render a scene script as a static contact sheet": "シーンスクリプトから静的なコンタクトシートを作成",
		"Show runtime codec support":                      "実行環境のコーデック対応状況を表示",

		// Compose flags
		"Output file path (default: the published file name)": "出力ファイルパス（デフォルト: 公開リソースのファイル名）",
		"Config file path (YAML)":                             "設定ファイルパス（YAML）",
		"Capture rate in frames per second":                   "キャプチャレート（フレーム/秒）",
		"Extra hold after each scene in milliseconds":         "各シーン描画後の追加保持時間（ミリ秒）",
		"Video quality (CRF 0-63, lower is better)":           "動画品質（CRF 0-63、低いほど高品質）",
		"Target bitrate in kbps (0 = codec default)":          "目標ビットレート（kbps、0はコーデック既定値）",
		"Codec preference order (hevc, h264, mjpeg)":          "コーデック優先順位（hevc, h264, mjpeg）",
		"Path to the ffmpeg executable (falls back to PATH)":  "ffmpeg実行ファイルのパス（未指定時はPATHから検索）",
		"Write a markdown run summary to this path":           "Markdown形式の実行サマリーをこのパスに書き出す",
		"Enable debug output":                                 "デバッグ出力を有効化",
		"Directory for debug output":                          "デバッグ出力のディレクトリ",
		"Log level (debug, info, warn, error)":                "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                             "すべてのログ出力を抑制",

		// Storyboard flags
		"Output PNG file path":      "出力PNGファイルパス",
		"Number of grid columns":    "グリッドのカラム数",
		"Thumbnail width in pixels": "サムネイルの幅（ピクセル）",

		// Runtime messages
		"compose needs a scene script path":    "composeにはシーンスクリプトのパスが必要です",
		"storyboard needs a scene script path": "storyboardにはシーンスクリプトのパスが必要です",
		"Interrupted, shutting down...":        "中断されました。シャットダウンしています...",
		"No usable video codec, falling back to a static storyboard": "利用可能な動画コーデックがないため、静的なストーリーボードに切り替えます",
		"Output saved to %s":                     "出力を %s に保存しました",
		"Storyboard saved to %s":                 "ストーリーボードを %s に保存しました",
		"Summary written to %s":                  "サマリーを %s に書き出しました",
		"Output verified: %s in %s container":    "出力を検証: %s コーデック, %s コンテナ",
		"Output probe failed: %s":                "出力の検証に失敗しました: %s",

		// Codec table
		"Codec":     "コーデック",
		"Container": "コンテナ",
		"Available": "利用可否",
		"Detail":    "詳細",
		"yes":       "可",
		"no":        "不可",

		// Summary labels
		"Composition Summary": "構成サマリー",
		"Generated":           "生成日時",
		"Script":              "スクリプト",
		"Source":              "ソース",
		"Scenes":              "シーン数",
		"Content duration":    "コンテンツ時間",
		"Output":              "出力",
		"Mode":                "モード",
		"storyboard fallback": "ストーリーボード代替",
		"File":                "ファイル",
		"N/A":                 "なし",
		"Media type":          "メディアタイプ",
		"Frames":              "フレーム数",
		"Video duration":      "動画時間",
		"Size":                "サイズ",
		"Surface":             "描画面",
		"Settings":            "設定",
		"Frame rate":          "フレームレート",
		"Settle delay":        "セトル遅延",
		"Quality (CRF)":       "品質（CRF）",
		"codec default":       "コーデック既定値",
		"Bitrate":             "ビットレート",
		"Codec preference":    "コーデック優先順位",
		"auto":                "自動",
		"Codec support":       "コーデック対応状況",
		"available":           "利用可能",
		"not available":       "利用不可",
	})
}
