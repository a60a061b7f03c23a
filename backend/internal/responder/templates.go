package responder

import (
	"fmt"
	"math/rand"
)

// systemPromptTemplate is the fixed generator persona; the composed user
// context block is injected at %s.
const systemPromptTemplate = `Eres AURA, un asistente de bienestar emocional diseñado para apoyar a jóvenes.

## Tu Personalidad
- Eres empático, cálido y comprensivo
- Usas un tono cercano pero respetuoso
- Nunca juzgas ni minimizas los sentimientos
- Ofreces apoyo sin dar consejos médicos específicos

## Directrices de Respuesta

### Para situaciones NORMALES:
- Responde de forma conversacional y amigable
- Fomenta la expresión emocional
- Sugiere actividades positivas cuando sea apropiado

### Para situaciones de APOYO EMOCIONAL:
- Valida los sentimientos del usuario
- Usa frases como "Entiendo cómo te sientes" o "Es normal sentirse así"
- Ofrece perspectiva sin minimizar
- Sugiere recursos de la comunidad AURA

### Para situaciones de RIESGO MODERADO/ALTO:
- Prioriza la validación emocional
- Sugiere hablar con alguien de confianza
- Menciona que hay profesionales disponibles para ayudar
- Mantén un tono esperanzador pero realista

## Recursos de Crisis (México):
- Línea de la Vida: 800-911-2000 (24 horas)
- SAPTEL: 55 5259-8121
- Consejo Ciudadano: 55 5533-5533

## Limitaciones
- NO eres un profesional de salud mental
- NO puedes diagnosticar condiciones
- NO debes dar consejos médicos específicos
- SIEMPRE deriva a profesionales en casos serios

%s

## Instrucción
Responde al siguiente mensaje del usuario de forma empática y apropiada según el contexto proporcionado.
Responde en español, de forma natural y conversacional.
Mantén tu respuesta concisa (máximo 3-4 párrafos).`

// CrisisResponseTemplate is served verbatim on the crisis branch. It is
// never LLM-generated: crisis wording must not be subject to generation
// variance.
const CrisisResponseTemplate = `Entiendo que estás pasando por un momento muy difícil, y me preocupa lo que me cuentas. Lo que sientes es real y válido.

Es importante que hables con alguien que pueda ayudarte de forma profesional ahora mismo:

📞 **Línea de la Vida: 800-911-2000** (gratuita, 24 horas)
📞 **SAPTEL: 55 5259-8121** (atención en crisis)

No tienes que enfrentar esto solo/a. Hay personas capacitadas esperando para escucharte y ayudarte.

¿Hay alguien de confianza cerca de ti con quien puedas estar mientras llamas?`

// FallbackMessage is served when generation fails. It carries the primary
// hotline so that a failed generation never drops crisis-resource
// visibility for an at-risk user.
const FallbackMessage = "Lo siento, estoy teniendo dificultades técnicas en este momento. " +
	"Si necesitas hablar con alguien urgentemente, puedes llamar a la " +
	"Línea de la Vida: 800-911-2000 (24 horas, gratuita)."

var greetingPool = []string{
	"¡Hola%s! 👋 ¿Cómo te sientes hoy?",
	"¡Qué gusto verte%s! ¿En qué puedo ayudarte?",
	"¡Hola%s! Estoy aquí para escucharte. 💙",
}

// Greeting returns a canned conversation opener, optionally personalized.
func Greeting(userName string) string {
	namePart := ""
	if userName != "" {
		namePart = ", " + userName
	}
	return fmt.Sprintf(greetingPool[rand.Intn(len(greetingPool))], namePart)
}
