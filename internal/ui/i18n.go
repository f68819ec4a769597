package ui

import "github.com/Ilovko/r6s/internal/domain"

var messages = map[string]map[domain.Language]string{
	"title":            {domain.LanguageKorean: "전술 보드", domain.LanguageEnglish: "Tactical Board", domain.LanguageJapanese: "戦術ボード"},
	"tool.player":      {domain.LanguageKorean: "오퍼레이터", domain.LanguageEnglish: "Operator", domain.LanguageJapanese: "オペレーター"},
	"tool.blueArrow":   {domain.LanguageKorean: "파란 화살표", domain.LanguageEnglish: "Blue arrow", domain.LanguageJapanese: "青い矢印"},
	"tool.redArrow":    {domain.LanguageKorean: "빨간 화살표", domain.LanguageEnglish: "Red arrow", domain.LanguageJapanese: "赤い矢印"},
	"tool.move":        {domain.LanguageKorean: "이동", domain.LanguageEnglish: "Move", domain.LanguageJapanese: "移動"},
	"tool.erase":       {domain.LanguageKorean: "지우기", domain.LanguageEnglish: "Erase", domain.LanguageJapanese: "消去"},
	"tool.pan":         {domain.LanguageKorean: "화면 이동", domain.LanguageEnglish: "Pan", domain.LanguageJapanese: "パン"},
	"tool.wall":        {domain.LanguageKorean: "벽", domain.LanguageEnglish: "Wall", domain.LanguageJapanese: "壁"},
	"tool.danger":      {domain.LanguageKorean: "위험", domain.LanguageEnglish: "Danger", domain.LanguageJapanese: "危険"},
	"tool.watch":       {domain.LanguageKorean: "감시", domain.LanguageEnglish: "Watch", domain.LanguageJapanese: "監視"},
	"tool.objective":   {domain.LanguageKorean: "목표", domain.LanguageEnglish: "Objective", domain.LanguageJapanese: "目標"},
	"layer.players":    {domain.LanguageKorean: "오퍼레이터", domain.LanguageEnglish: "Operators", domain.LanguageJapanese: "オペレーター"},
	"layer.arrows":     {domain.LanguageKorean: "화살표", domain.LanguageEnglish: "Arrows", domain.LanguageJapanese: "矢印"},
	"layer.markers":    {domain.LanguageKorean: "마커", domain.LanguageEnglish: "Markers", domain.LanguageJapanese: "マーカー"},
	"layer.walls":      {domain.LanguageKorean: "벽", domain.LanguageEnglish: "Walls", domain.LanguageJapanese: "壁"},
	"side.attack":      {domain.LanguageKorean: "공격", domain.LanguageEnglish: "Attack", domain.LanguageJapanese: "攻撃"},
	"side.defense":     {domain.LanguageKorean: "수비", domain.LanguageEnglish: "Defense", domain.LanguageJapanese: "防衛"},
	"undo":             {domain.LanguageKorean: "실행 취소", domain.LanguageEnglish: "Undo", domain.LanguageJapanese: "元に戻す"},
	"redo":             {domain.LanguageKorean: "다시 실행", domain.LanguageEnglish: "Redo", domain.LanguageJapanese: "やり直し"},
	"clear":            {domain.LanguageKorean: "전체 삭제", domain.LanguageEnglish: "Clear", domain.LanguageJapanese: "全消去"},
	"zoomIn":           {domain.LanguageKorean: "확대", domain.LanguageEnglish: "Zoom in", domain.LanguageJapanese: "拡大"},
	"zoomOut":          {domain.LanguageKorean: "축소", domain.LanguageEnglish: "Zoom out", domain.LanguageJapanese: "縮小"},
	"resetView":        {domain.LanguageKorean: "보기 초기화", domain.LanguageEnglish: "Reset view", domain.LanguageJapanese: "表示リセット"},
	"save":             {domain.LanguageKorean: "저장", domain.LanguageEnglish: "Save", domain.LanguageJapanese: "保存"},
	"load":             {domain.LanguageKorean: "불러오기", domain.LanguageEnglish: "Load", domain.LanguageJapanese: "読み込み"},
	"delete":           {domain.LanguageKorean: "삭제", domain.LanguageEnglish: "Delete", domain.LanguageJapanese: "削除"},
	"export":           {domain.LanguageKorean: "내보내기", domain.LanguageEnglish: "Export", domain.LanguageJapanese: "エクスポート"},
	"strategies":       {domain.LanguageKorean: "저장된 전략", domain.LanguageEnglish: "Saved strategies", domain.LanguageJapanese: "保存した戦略"},
	"noStrategies":     {domain.LanguageKorean: "저장된 전략이 없습니다", domain.LanguageEnglish: "No saved strategies", domain.LanguageJapanese: "保存した戦略はありません"},
	"confirmMapChange": {domain.LanguageKorean: "맵을 변경하면 모든 배치가 삭제됩니다. 계속할까요?", domain.LanguageEnglish: "Changing the map removes everything on the board. Continue?", domain.LanguageJapanese: "マップを変更すると配置がすべて削除されます。続けますか？"},
	"roleChange":       {domain.LanguageKorean: "오퍼레이터 변경", domain.LanguageEnglish: "Change operator", domain.LanguageJapanese: "オペレーター変更"},
	"locked":           {domain.LanguageKorean: "잠김", domain.LanguageEnglish: "locked", domain.LanguageJapanese: "ロック中"},
	"help":             {domain.LanguageKorean: "1-5 도구, Q/W/E/R 벽·마커, Shift+1-4 층, Ctrl+Z/Y 실행 취소·다시 실행, Ctrl+S 저장, Ctrl+O 불러오기", domain.LanguageEnglish: "1-5 tools, Q/W/E/R walls and markers, Shift+1-4 floors, Ctrl+Z/Y undo and redo, Ctrl+S save, Ctrl+O load", domain.LanguageJapanese: "1-5 ツール, Q/W/E/R 壁とマーカー, Shift+1-4 フロア, Ctrl+Z/Y 元に戻す・やり直し, Ctrl+S 保存, Ctrl+O 読み込み"},
}

// Text looks up a UI string, falling back to English and then to the key.
func Text(lang domain.Language, key string) string {
	tr, ok := messages[key]
	if !ok {
		return key
	}
	if s, ok := tr[lang]; ok {
		return s
	}
	return tr[domain.LanguageEnglish]
}
