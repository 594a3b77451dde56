package resumes

import (
	"fmt"
	"strings"
)

const guidelineTemplate = `당신은 자기소개서 컨설턴트입니다.

당신은 주어진 질문에 대한 고객의 답변 작성을 돕기 위해 가이드라인을 만들어 주어야 합니다. 가이드의 개수는 **정확히 3개**이어야 합니다.

## 규칙
- 반드시 생성한 가이드라인을 list 형태로 반환해 주세요.
- 각 문장의 끝은 반드시 '작성해 주세요' 또는 '서술해 주세요'로 끝나야 합니다.

예시)
Q: 당신의 '지원동기'에 대해서 소개해주세요.
A: ['왜 이 회사여야만 하는가에 대해서 작성해 주세요.', '회사-직무-본인과의 적합성에 대해 서술해 주세요.', '실현가능한 목표와 비전에 대해 서술해 주세요.']

Q: 당신이 지원한 직무에 대한 '직무 관심 계기'에 대해서 소개해주세요.
A: ['해당 직무에 관심을 가지게 된 구체적인 사건이나 경험을 작성해 주세요.', '직무에 대한 당신의 열정과 관심이 어떻게 발전해 왔는지 서술해 주세요.', '이 직무를 통해 달성하고자 하는 개인적 또는 전문적 목표에 대해 작성해 주세요.']

Q: 당신이 이전에 근무했던 회사의 '회사 경력'에 대해서 소개해주세요.
A: ['회사에서의 주요 업무와 책임에 대해 작성해 주세요.', '경력 동안 달성한 주요 성과와 그 성과가 어떻게 당신의 전문성을 반영하는지 서술해 주세요.', '직무와 관련된 중요한 배움이나 성장의 경험에 대해 작성해 주세요.']

-------------

Q: 당신의 '%s'에 대해서 소개해주세요.
A: `

const generationTemplate = `당신은 자기소개서 컨설턴트입니다.
당신은 기업 우대사항과 예시들을 활용하여 주어진 질문에 대한 고객의 답변 작성을 첨삭해 주어야 합니다.

다음은 답변해야 하는 질문과 해당 질문에 대한 고객의 답변입니다.
고객의 답변은 제공된 '가이드라인 + 답변' 쌍으로 구성되어 있습니다.
Q: %s
A: %s

다음은 해당하는 기업의 조직 소개 및 우대사항입니다.
%s

아래는 잘 작성된 몇 가지 자기소개서 예시입니다.
아래 예시들을 **참고만 하고**, 고객의 답변과 우대사항을 최대한 반영하여 첨삭된 자기소개서를 작성해 주세요.
%s`

const refinementTemplate = `당신은 자기소개서 컨설턴트입니다.
당신은 이전 대화에서 생성된 자기소개서를 보고, 고객의 요구사항과 공고 우대사항을 반영하여 유용한 자기소개서를 생성해야 합니다.

현재 자기소개서는 다음과 같습니다.
%s

고객의 요구사항은 다음과 같습니다.
%s

당신은 **오직 첨삭된 자기소개서만으로 대답할 수 있습니다**.`

// GuidelinePrompt renders the guideline instruction for a question.
func GuidelinePrompt(question string) string {
	return fmt.Sprintf(guidelineTemplate, question)
}

// GenerationPrompt renders the generation instruction. Pure function:
// identical inputs always produce byte-identical output.
func GenerationPrompt(question, combinedAnswer, favorInfo string, examples []Example) string {
	return fmt.Sprintf(generationTemplate, question, combinedAnswer, favorInfo, formatExamples(examples))
}

// RefinementPrompt renders the refinement instruction embedding the current
// draft and the user's follow-up instruction.
func RefinementPrompt(draft, instruction string) string {
	return fmt.Sprintf(refinementTemplate, draft, instruction)
}

// CombineAnswers concatenates each non-empty guideline+answer pair in list
// order, then appends the free-form answer. Guidelines whose answer is
// empty contribute nothing.
func CombineAnswers(guidelines, answers []string, freeAnswer string) string {
	var b strings.Builder
	for i, answer := range answers {
		if answer == "" {
			continue
		}
		if i < len(guidelines) {
			b.WriteString(guidelines[i])
			b.WriteString("\n")
		}
		b.WriteString(answer)
		b.WriteString("\n\n")
	}
	b.WriteString(freeAnswer)
	return b.String()
}

func formatExamples(examples []Example) string {
	parts := make([]string, 0, len(examples))
	for i, ex := range examples {
		parts = append(parts, fmt.Sprintf("예시%d) \nQuestion: %s \nAnswer: %s", i+1, ex.Question, ex.Answer))
	}
	return strings.Join(parts, "\n\n")
}
