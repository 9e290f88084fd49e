// internal/article/seed.go
package article

// Seed loads a small set of sample articles for local development and
// demos. It returns the number of articles inserted.
func (s *Store) Seed() int {
	samples := []Article{
		{
			Title:    "뉴진스, 신곡 'Supernatural'로 컴백 확정",
			Subtitle: "6월 21일 글로벌 동시 발매",
			Content: `그룹 뉴진스가 오는 6월 21일 신곡 'Supernatural'로 컴백한다.

소속사는 15일 공식 채널을 통해 컴백 일정을 공개하며 "이번 앨범은 멤버들이 직접 작업에 참여한 곡들로 구성됐다"고 밝혔다.

뉴진스는 지난 앨범으로 빌보드 핫 100에 진입하며 글로벌 인기를 입증한 바 있다.`,
			Category: "K-POP",
			Tags:     []string{"뉴진스", "컴백", "Supernatural"},
			Author:   "김기자",
			Status:   StatusPublished,
		},
		{
			Title:    "배우 박서준, 할리우드 진출작 촬영 돌입",
			Subtitle: "",
			Content: `배우 박서준이 할리우드 진출작 촬영에 돌입했다.

관계자에 따르면 박서준은 이번 주부터 미국 현지에서 촬영을 시작했으며, 올해 하반기까지 일정이 이어질 예정이다.`,
			Category: "영화",
			Tags:     []string{"박서준", "할리우드"},
			Author:   "이기자",
			Status:   StatusReview,
		},
		{
			Title:    "[단독] 인기 예능 '런닝맨' 새 멤버 합류 임박",
			Content:  `SBS 예능 '런닝맨'에 새 멤버가 합류할 예정인 것으로 확인됐다. 제작진은 "확정되는 대로 공식 발표하겠다"는 입장이다.`,
			Category: "방송",
			Tags:     []string{"런닝맨", "예능"},
			Author:   "최기자",
			Status:   StatusDraft,
			Exposure: Exposure{Exclusive: true},
		},
	}

	for _, a := range samples {
		s.Create(a)
	}
	return len(samples)
}
