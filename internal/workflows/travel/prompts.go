package travel

import (
	"fmt"
	"strings"

	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
)

func interests(in Input) string {
	if len(in.Interests) == 0 {
		return "일반"
	}
	return strings.Join(in.Interests, ", ")
}

func placesPrompt(in Input) string {
	return fmt.Sprintf(`%s에서 %s하기 좋은 장소를 추천해주세요.

## 조건
- 기간: %s ~ %s
- 관심사: %s
- 동행: %s
- 예산: %s

맛집, 카페/디저트, 관광 명소, 숙소(1박 이상인 경우)를 카테고리별로 3~5곳씩 추천하세요.
JSON으로만 답하세요:
{"restaurants": [{"name": "이름", "category": "분류", "price_range": "가격대", "rating": 4.5, "address": "주소", "tip": "방문팁"}], "cafes": [], "attractions": [], "accommodations": []}`,
		in.Destination, in.Label(), in.StartDate, in.EndDate,
		interests(in),
		workflows.OrDefault(in.Companions, "미정"),
		workflows.OrDefault(in.BudgetRange, "미정"),
	)
}

func timelinePrompt(s *State) string {
	return fmt.Sprintf(`다음 장소들로 최적의 일정을 짜주세요.

## 기간
%s ~ %s

## 출발지
%s

## 목적지
%s

## 추천 장소
%s

## 특별 요청
%s

시간대별 일정을 JSON으로만 답하세요:
{"days": [{"date": "YYYY-MM-DD", "day_title": "Day 1", "schedule": [{"time": "09:00", "activity": "출발", "place": "장소", "duration": "1시간", "notes": "메모"}]}]}`,
		s.Input.StartDate, s.Input.EndDate,
		s.Input.Departure,
		s.Input.Destination,
		workflows.MustJSON(s.Places, false),
		workflows.OrDefault(s.Input.SpecialRequests, "없음"),
	)
}

func budgetPrompt(s *State) string {
	overview := "일반적인 일정"
	if len(s.Timeline) > 0 {
		overview = workflows.MustJSON(s.Timeline[:min(len(s.Timeline), 2)], false)
	}
	return fmt.Sprintf(`다음 일정의 예상 비용을 계산해주세요.

## 기간
%s ~ %s

## 목적지
%s

## 동행
%s

## 일정 개요
%s

항목별 비용을 JSON으로만 답하세요:
{"transportation": {"description": "교통비", "amount": 0}, "accommodation": {"description": "숙박비", "amount": 0}, "food": {"description": "식비", "amount": 0}, "activities": {"description": "관람/체험비", "amount": 0}, "etc": {"description": "기타", "amount": 0}, "total": 0, "per_person": 0}`,
		s.Input.StartDate, s.Input.EndDate,
		s.Input.Destination,
		workflows.OrDefault(s.Input.Companions, "1인"),
		overview,
	)
}

func checklistPrompt(in Input) string {
	return fmt.Sprintf(`다음 일정을 위한 준비물 체크리스트를 만들어주세요.

## 목적지
%s

## 기간
%s ~ %s

## 동행
%s

## 관심사
%s

필수 준비물을 JSON 배열로만 답하세요: ["신분증", "충전기", ...]`,
		in.Destination,
		in.StartDate, in.EndDate,
		workflows.OrDefault(in.Companions, "1인"),
		interests(in),
	)
}
