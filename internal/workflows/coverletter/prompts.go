package coverletter

import (
	"fmt"

	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
)

func researchPrompt(company string) string {
	return fmt.Sprintf(`다음 회사를 조사해 핵심만 간결하게 정리해주세요: %s

1. 비전과 미션
2. 핵심 가치와 조직 문화
3. 주요 사업 영역
4. 최근 뉴스와 동향`, company)
}

func analyzePrompt(posting string) string {
	return fmt.Sprintf(`아래 채용 공고를 분석해 JSON으로만 답해주세요.

%s

형식:
{"position": "직무명", "requirements": ["필수 요건"], "preferred": ["우대 사항"], "questions": ["자소서 문항"], "keywords": ["핵심 키워드"]}`, posting)
}

func draftPrompt(s *State) string {
	return fmt.Sprintf(`당신은 자기소개서 작성 전문 컨설턴트입니다.

## 이력서
%s

## 포트폴리오
%s

## 기존 자기소개서 (문체 참고)
%s

## 회사 조사
%s

## 채용 공고 분석
%s

## 추가 요청
%s

각 자소서 문항에 대한 답변을 작성하세요. 기존 자기소개서의 문체를 유지하되 회사와 직무에 맞추세요.
JSON으로만 답하세요: {"문항 제목": "답변", ...}`,
		workflows.Truncate(s.Resume, 3000),
		workflows.Truncate(s.Portfolio, 2000),
		joinedPriorLetters(s),
		s.CompanyResearch,
		workflows.MustJSON(s.Requirements, true),
		workflows.OrDefault(s.Input.AdditionalInstructions, "없음"),
	)
}

func comparePrompt(s *State) string {
	return fmt.Sprintf(`두 자기소개서를 같은 사람이 썼는지 판단해주세요.

## 기존 자기소개서
%s

## 새 자기소개서
%s

문체, 가치관, 경험의 연결, 어휘 습관, 이야기 전개 방식을 비교하세요.
JSON으로만 답하세요: {"similarity_score": 0에서 100 사이 숫자, "is_same_person": true 또는 false, "feedback": "구체적인 개선 제안"}`,
		joinedPriorLetters(s),
		workflows.MustJSON(s.Draft, false),
	)
}

func revisePrompt(s *State) string {
	reference := "없음"
	if len(s.PriorLetters) > 0 {
		reference = s.PriorLetters[0]
	}
	return fmt.Sprintf(`피드백을 반영해 자기소개서를 고쳐주세요.

## 현재 자기소개서
%s

## 피드백
%s

## 기존 자기소개서 (참고)
%s

수정본을 같은 JSON 형식으로만 출력하세요.`,
		workflows.MustJSON(s.Draft, false),
		s.Feedback,
		reference,
	)
}
