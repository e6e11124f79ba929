package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Composer level messages (info)
		"Composition started: %d scenes, %.1fs of content": "構成を開始: %d シーン, コンテンツ %.1f 秒",
		"Scene %d/%d on screen":                            "シーン %d/%d を表示中",
		"Composition ready: %d frames, %d bytes (%s)":      "構成が完了: %d フレーム, %d バイト (%s)",
		"Composition failed: %s":                           "構成に失敗しました: %s",
		"Stale run result discarded, a newer request took over":          "古い実行結果を破棄しました。新しいリクエストが引き継ぎました",
		"Settle delay raised to %s to cover the capture frame interval":  "セトル遅延をキャプチャフレーム間隔に合わせて %s に引き上げました",

		// Timeline component
		"Committed scene %d/%d (%s), holding %.1fs": "シーン %d/%d (%s) をコミット, %.1f 秒保持",
		"Timeline complete: %d scenes":              "タイムライン完了: %d シーン",

		// Capture component
		"Capture started: %dx%d at %.1f fps (%s)":     "キャプチャ開始: %dx%d, %.1f fps (%s)",
		"Capture finished: %d frames, %d bytes (%s)":  "キャプチャ完了: %d フレーム, %d バイト (%s)",
		"Capture aborted after %d frames":             "キャプチャを %d フレームで中断しました",
		"Capture sampler stopped with: %s":            "キャプチャサンプラーが停止しました: %s",
		"Encoder discarded: %s":                       "エンコーダーを破棄しました: %s",
		"Encoder discarded after failure: %s":         "失敗によりエンコーダーを破棄しました: %s",

		// Codec selection component
		"Unknown codec %q skipped":               "未知のコーデック %q をスキップしました",
		"Codec %s unavailable (%s), trying next": "コーデック %s は利用できません (%s)。次を試します",
		"Selected codec %s (%s)":                 "コーデック %s を選択しました (%s)",

		// Storyboard component
		"Storyboard grid: %d scenes in %d columns, %dx%d sheet": "ストーリーボードグリッド: %d シーン %d カラム, %dx%d シート",
		"Storyboard rendered: %d scenes, %d bytes":              "ストーリーボード生成完了: %d シーン, %d バイト",

		// Warnings
		"Debug frame save failed: %s":    "デバッグフレームの保存に失敗しました: %s",
		"Debug video save failed: %s":    "デバッグ動画の保存に失敗しました: %s",
		"Debug manifest save failed: %s": "デバッグマニフェストの保存に失敗しました: %s",
	})
}
