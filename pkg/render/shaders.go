package render

// Fullscreen-triangle shaders: three hardcoded vertices cover the whole
// viewport, the fragment stage samples the display texture.

const vertexShaderSource = `#version 330

smooth out vec2 texcoords;

vec4 positions[3] = vec4[3](
    vec4(-1.0, 1.0, 0.0, 1.0),
    vec4(3.0, 1.0, 0.0, 1.0),
    vec4(-1.0, -3.0, 0.0, 1.0)
);

vec2 texpos[3] = vec2[3](
    vec2(0, 0),
    vec2(2, 0),
    vec2(0, 2)
);

void main() {
    gl_Position = positions[gl_VertexID];
    texcoords = texpos[gl_VertexID];
}
` + "\x00"

const fragmentShaderSource = `#version 330

smooth in vec2 texcoords;

out vec4 outputColour;

uniform sampler2D texSampler;

void main() {
    outputColour = texture(texSampler, texcoords);
}
` + "\x00"
