package ai

import "strings"

const untitledPlaceholder = "（タイトルなし）"

const analysisPrompt = `
あなたは心理分析の専門家です。以下の日記・ジャーナル投稿を分析し、JSON形式で結果を返してください。

投稿内容:
タイトル: {title}
本文: {content}

以下の形式で分析結果を返してください:
{
  "emotions": {
    "joy": 0.0-1.0の数値,
    "sadness": 0.0-1.0の数値,
    "anger": 0.0-1.0の数値,
    "fear": 0.0-1.0の数値,
    "surprise": 0.0-1.0の数値
  },
  "topics": ["検出されたトピック1", "トピック2", "トピック3"],
  "personality_traits": {
    "openness": 0.0-1.0の数値,
    "conscientiousness": 0.0-1.0の数値,
    "extraversion": 0.0-1.0の数値,
    "agreeableness": 0.0-1.0の数値,
    "neuroticism": 0.0-1.0の数値
  },
  "interests": ["関心事1", "関心事2"],
  "summary": "分析結果の要約（2-3文）"
}

JSONのみを返し、他のテキストは含めないでください。
`

const userSummaryPrompt = `
以下はユーザーの日記分析結果の履歴です。全体的な傾向をJSON形式でまとめてください。

{analyses}

形式:
{
  "overall_summary": "全体的な傾向の要約",
  "dominant_emotions": ["主要な感情1", "感情2"],
  "key_interests": ["主要な関心事1", "関心事2"],
  "personality_overview": "性格傾向の概要",
  "recommendations": ["おすすめ1", "おすすめ2"]
}

JSONのみを返してください。
`

// assistantPersona 日记助手的人设
const assistantPersona = `あなたは日記作成を手伝うフレンドリーなAIアシスタントです。
ユーザーの今日の出来事や気持ちを引き出すために、優しく質問してください。

ガイドライン:
- 短く親しみやすい言葉で話してください
- 一度に1つの質問だけしてください
- ユーザーの回答に共感を示してください
- 3-5回のやり取りで十分な情報を集めてください
- 深掘りしすぎず、自然な会話を心がけてください
- 会話の終盤（4回目以降）では、「投稿に添付する画像はありますか？」と聞いてください

最初の質問は「今日はどんな一日でしたか？」から始めてください。`

const draftPrompt = `以下の会話内容を元に、日記の投稿を作成してください。

会話内容:
{conversation}

以下のJSON形式で出力してください:
{
  "title": "日記のタイトル（10-20文字程度）",
  "content": "日記の本文（ユーザーの視点で、です・ます調で、200-400文字程度）"
}

注意:
- ユーザーが話した内容を元に、一人称で書いてください
- 感情や気持ちも含めて自然な日記にしてください
- 会話で出てきた具体的なエピソードを含めてください
- JSONのみを出力し、他のテキストは含めないでください`

// render 替换模板中的占位符
//
// 使用单次替换，正文里出现的 "{content}" 之类的文字不会被二次展开。
func render(tmpl string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
