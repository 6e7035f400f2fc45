package conversation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	markdownLink    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markupChars     = strings.NewReplacer("*", "", "#", "", "`", "", "_", " ", "~", "", ">", "")
	multipleSpaces  = regexp.MustCompile(`[ \t]+`)
	multipleNewline = regexp.MustCompile(`\n{2,}`)
)

// ForSpeech 把模型输出清理为可直接朗读的文本：
// 去掉 URL、markdown 标记和 emoji，压缩空白
func ForSpeech(s string) string {
	s = markdownLink.ReplaceAllString(s, "$1")
	s = urlPattern.ReplaceAllString(s, "")
	s = markupChars.Replace(s)
	s = stripEmoji(s)
	s = multipleSpaces.ReplaceAllString(s, " ")
	s = multipleNewline.ReplaceAllString(s, "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// stripEmoji 去掉符号类字符，保留各语言的文字与常规标点
func stripEmoji(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.So, r) || unicode.Is(unicode.Sk, r) || r == unicode.ReplacementChar {
			return -1
		}
		// 变体选择符与零宽连接符只在 emoji 序列里出现
		if r == 0xFE0F || r == 0x200D {
			return -1
		}
		return r
	}, s)
}
