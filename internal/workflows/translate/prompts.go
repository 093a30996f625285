package translate

import (
	"fmt"
	"strings"
)

func textPrompt(in Input) string {
	var situation string
	if in.Context != "" {
		situation = "\n상황: " + in.Context + "\n"
	}
	return fmt.Sprintf(`다음 텍스트를 %[1]s로 번역해주세요.
%[2]s
원문 언어: %[3]s

원문:
%[4]s

자연스러운 %[1]s 표현을 쓰고 원문의 뉘앙스와 톤, 문화적 맥락을 살리세요.
번역문만 출력하세요.`, in.TargetLanguage, situation, in.SourceLanguage, in.Content)
}

func srtPrompt(target string, texts []string) string {
	return fmt.Sprintf(`다음 자막들을 %s로 번역해주세요. 각 자막은 %s 구분자로 나뉩니다.

%s

자연스러운 구어체로 간결하게 번역하고, 번역문도 %s로 구분해 같은 순서로 출력하세요.
번역문만 출력하세요.`, target, separator, strings.Join(texts, " "+separator+" "), separator)
}

func emailPrompt(in Input) string {
	return fmt.Sprintf(`다음 상황과 핵심 내용을 바탕으로 %[1]s로 이메일을 작성해주세요.

## 상황
%[2]s

## 전달할 핵심 내용
%[3]s

%[1]s 비즈니스 이메일 관례에 맞는 인사말과 마무리를 넣고, 정중하고 전문적인 톤을 유지하세요.
이메일 전문을 출력하세요.`, in.TargetLanguage, in.Context, in.Content)
}
