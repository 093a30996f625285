package weeklyreport

import (
	"fmt"
	"strings"

	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
)

func reportPrompt(s *State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "주간업무보고서를 작성해주세요.\n\n## 기간\n%s ~ %s\n\n",
		s.WeekStart.Format(promptDateLayout), s.WeekEnd.Format(promptDateLayout))
	fmt.Fprintf(&b, "## 이번 주 수행 업무\n%s\n\n", s.Input.TasksCompleted)
	fmt.Fprintf(&b, "## 다음 주 계획\n%s\n\n", workflows.OrDefault(s.Input.NextWeekPlan, "미정"))
	if s.ReferenceStyle != "" {
		fmt.Fprintf(&b, "## 기존 보고서 스타일 참고\n%s\n\n", s.ReferenceStyle)
	}
	if s.Input.BossPreferences != "" {
		fmt.Fprintf(&b, "## 상사 성향/특이사항\n%s\n\n", s.Input.BossPreferences)
	}
	b.WriteString(`## 요구사항
1. PPT에 바로 옮길 수 있는 구조화된 마크다운
2. 표와 불릿 포인트 활용
3. 진행률(%)이 있으면 포함
4. 이슈가 있으면 이슈와 해결방안 섹션 추가
5. 간결하게 핵심만

마크다운으로 보고서를 작성하세요.`)
	return b.String()
}
