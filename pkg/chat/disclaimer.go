package chat

import "chatsafety-server/pkg/lexicon"

// disclaimerTexts is the fixed per-language table of safety reminder copy.
// Unsupported languages fall back to English.
var disclaimerTexts = map[string]string{
	"en": "Safety reminder: keep your conversation on the platform. Sharing phone numbers, outside messaging handles, or arranging to meet before you are ready can put you at risk.",
	"es": "Recordatorio de seguridad: mantén la conversación en la plataforma. Compartir números de teléfono, cuentas de mensajería externas o quedar en persona antes de estar listo puede ponerte en riesgo.",
	"fr": "Rappel de sécurité : gardez votre conversation sur la plateforme. Partager un numéro de téléphone, un compte de messagerie externe ou organiser une rencontre trop tôt peut vous mettre en danger.",
	"de": "Sicherheitshinweis: Führe deine Unterhaltung auf der Plattform weiter. Das Teilen von Telefonnummern oder externen Messenger-Kontakten sowie frühe Treffen können dich gefährden.",
	"pt": "Lembrete de segurança: mantenha a conversa na plataforma. Compartilhar números de telefone, contatos de mensageiros externos ou marcar encontros cedo demais pode colocar você em risco.",
}

// DisclaimerText returns the localized safety reminder for the language,
// defaulting to English
func DisclaimerText(language string) string {
	lang := lexicon.NormalizeLanguage(language, nil, lexicon.DefaultLanguage)
	if text, ok := disclaimerTexts[lang]; ok {
		return text
	}
	return disclaimerTexts[lexicon.DefaultLanguage]
}
