package proposal

import (
	"fmt"

	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
)

func planPrompt(in Input) string {
	return fmt.Sprintf(`다음 아이디어로 상세 기획서를 쓰기 위한 리서치 계획을 세워주세요.

## 아이디어
%s

## 타겟 시장
%s

## 예산 규모
%s

구체적인 리서치 질문 10~15개를 만들고 각 질문을 market, legal, tech 중 하나로 분류하세요.
JSON으로만 답하세요:
{"title": "프로젝트 제목", "questions": [{"category": "market", "question": "질문"}]}`,
		in.Idea,
		workflows.OrDefault(in.TargetMarket, "미정"),
		workflows.OrDefault(in.BudgetRange, "미정"),
	)
}

func marketPrompt(in Input, questions []string) string {
	return fmt.Sprintf(`다음 아이디어의 시장 조사를 수행해주세요.

## 아이디어
%s

## 조사 항목
%s

시장 규모와 성장성, 타겟 고객, 경쟁사 3~5곳, 시장 기회와 위협을 마크다운으로 상세히 정리하세요.`,
		in.Idea, workflows.MustJSON(questions, false))
}

func legalPrompt(in Input, questions []string) string {
	return fmt.Sprintf(`다음 아이디어와 관련된 법률 및 규제를 조사해주세요.

## 아이디어
%s

## 조사 항목
%s

한국 기준 관련 법령, 인허가 요건, 개인정보보호, 컴플라이언스 체크리스트를 마크다운으로 상세히 정리하세요.`,
		in.Idea, workflows.MustJSON(questions, false))
}

func techPrompt(in Input, questions []string) string {
	return fmt.Sprintf(`다음 아이디어를 구현하기 위한 기술 조사를 수행해주세요.

## 아이디어
%s

## 조사 항목
%s

최신 기술 트렌드, 추천 기술 스택, 오픈소스 활용 방안, 기술적 도전과제를 마크다운으로 상세히 정리하세요.`,
		in.Idea, workflows.MustJSON(questions, false))
}

func writePrompt(s *State) string {
	return fmt.Sprintf(`다음 리서치 결과를 바탕으로 완전한 기획서를 작성해주세요.

## 아이디어
%s

## 시장 조사 결과
%s

## 법률/규제 조사 결과
%s

## 기술 조사 결과
%s

## 추가 요구사항
%s

목차:
1. Executive Summary
2. 시장 분석
3. 법률 및 규제
4. 제품 정의
5. 기술 설계
6. MVP 계획
7. 리스크 분석

마크다운으로 상세하게 작성하세요.`,
		s.Input.Idea,
		s.MarketResearch,
		s.LegalResearch,
		s.TechResearch,
		workflows.OrDefault(s.Input.SpecialRequirements, "없음"),
	)
}
